// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package secrets implements 'swapflow secrets'.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tombee/swapflow/internal/commands/shared"
	"github.com/tombee/swapflow/internal/log"
	"github.com/tombee/swapflow/internal/secrets"
)

// newResolver is replaced in tests.
var newResolver = secrets.DefaultResolver

// ListResponse is the JSON output of 'secrets list'.
type ListResponse struct {
	shared.JSONResponse
	Secrets []secrets.SecretMetadata `json:"secrets"`
}

// NewCommand creates the secrets command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage the stored API key",
		Long: `Manage secrets in the system keychain.

Secrets are resolved from, in order:
  1. Environment variables (read-only): SWAPFLOW_SECRET_<KEY>, or
     SOROSWAP_API_KEY for soroswap/api_key
  2. System keychain (macOS Keychain, Linux Secret Service, Windows Credential Manager)

The run command reads soroswap/api_key unless api.api_key is configured.

Examples:
  swapflow secrets set soroswap/api_key
  echo "sk-..." | swapflow secrets set soroswap/api_key
  swapflow secrets get soroswap/api_key
  swapflow secrets list
  swapflow secrets delete soroswap/api_key`,
	}

	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newGetCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newDeleteCommand())

	return cmd
}

func newSetCommand() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "set <key>",
		Short: "Store a secret",
		Long: `Store a secret. The value is read from stdin when piped, otherwise
from a hidden prompt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := validateKey(key); err != nil {
				return shared.NewInvalidInputError("invalid secret key", err)
			}

			value, err := readSecretValue(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to read secret value: %w", err)
			}
			if value == "" {
				return shared.NewInvalidInputError("secret value cannot be empty", nil)
			}

			resolver := newResolver()
			if err := resolver.Set(cmd.Context(), key, value, backend); err != nil {
				if errors.Is(err, secrets.ErrBackendUnavailable) {
					return fmt.Errorf("backend unavailable: %w\n\nSet the environment variable instead: export SWAPFLOW_SECRET_%s=<value>",
						err, strings.ToUpper(strings.ReplaceAll(key, "/", "_")))
				}
				return fmt.Errorf("failed to set secret: %w", err)
			}

			cmd.Printf("Secret %q stored in %s backend\n", key, backendUsed(resolver, backend))
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Target backend (keychain)")
	return cmd
}

func newGetCommand() *cobra.Command {
	var unmask bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Show a secret (masked by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, err := newResolver().Get(cmd.Context(), key)
			if err != nil {
				if errors.Is(err, secrets.ErrSecretNotFound) {
					return fmt.Errorf("secret not found: %q\n\nSet it with: swapflow secrets set %s", key, key)
				}
				return fmt.Errorf("failed to get secret: %w", err)
			}

			if unmask {
				cmd.Println(value)
				return nil
			}
			cmd.Printf("%s (use --unmask to show full value)\n", log.SanitizeAPIKey(value))
			return nil
		},
	}

	cmd.Flags().BoolVar(&unmask, "unmask", false, "Show full value")
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List secret keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, err := newResolver().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list secrets: %w", err)
			}

			if shared.GetJSON() {
				return shared.WriteJSON(cmd.OutOrStdout(), ListResponse{
					JSONResponse: shared.NewJSONResponse("secrets list", true),
					Secrets:      metadata,
				})
			}

			if len(metadata) == 0 {
				cmd.Println("No secrets found")
				return nil
			}
			cmd.Printf("%-40s %-10s %s\n", "KEY", "BACKEND", "READ-ONLY")
			for _, meta := range metadata {
				readOnly := "no"
				if meta.ReadOnly {
					readOnly = "yes"
				}
				cmd.Printf("%-40s %-10s %s\n", meta.Key, meta.Backend, readOnly)
			}
			return nil
		},
	}
}

func newDeleteCommand() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := newResolver().Delete(cmd.Context(), key, backend); err != nil {
				switch {
				case errors.Is(err, secrets.ErrSecretNotFound):
					return fmt.Errorf("secret not found: %q", key)
				case errors.Is(err, secrets.ErrReadOnlyBackend):
					return errors.New("cannot delete from read-only backend (environment variables)")
				}
				return fmt.Errorf("failed to delete secret: %w", err)
			}
			cmd.Printf("Secret %q deleted\n", key)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Target backend (keychain)")
	return cmd
}

// readSecretValue reads a piped value, or prompts without echo when in is
// a terminal.
func readSecretValue(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Enter secret value (hidden): ")
		value, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(value)), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func backendUsed(resolver *secrets.Resolver, requested string) string {
	if requested != "" {
		return requested
	}
	for _, b := range resolver.Backends() {
		if ro, ok := b.(secrets.ReadOnlyBackend); !ok || !ro.ReadOnly() {
			return b.Name()
		}
	}
	return "unknown"
}

func validateKey(key string) error {
	switch {
	case key == "":
		return errors.New("secret key cannot be empty")
	case strings.ContainsAny(key, " \t"):
		return errors.New("secret key cannot contain spaces")
	case strings.Contains(key, "\\"):
		return errors.New("secret key should use forward slashes (/), not backslashes (\\)")
	}
	return nil
}
