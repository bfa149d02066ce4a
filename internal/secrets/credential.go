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

package secrets

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// APIKeySecret is the secret consulted when no api_key is configured.
const APIKeySecret = "soroswap/api_key"

// Reference prefixes accepted in api_key.
const (
	envRefPrefix    = "env:"
	secretRefPrefix = "$secret:"
)

// Credential is the run-scoped API key and endpoint. It is resolved once and
// shared read-only by every item.
type Credential struct {
	APIKey  string
	BaseURL string
}

// CredentialError reports a missing or malformed credential. It is fatal to
// the whole run.
type CredentialError struct {
	Field  string
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *CredentialError) Error() string {
	msg := fmt.Sprintf("credential error: %s %s", e.Field, e.Reason)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CredentialError) Unwrap() error {
	return e.Cause
}

// IsUserVisible implements pkg/errors.UserVisibleError.
func (e *CredentialError) IsUserVisible() bool {
	return true
}

// UserMessage implements pkg/errors.UserVisibleError.
func (e *CredentialError) UserMessage() string {
	return e.Error()
}

// Suggestion implements pkg/errors.UserVisibleError.
func (e *CredentialError) Suggestion() string {
	if e.Field == "api_key" {
		return "Set SOROSWAP_API_KEY, configure api.api_key, or run 'swapflow secrets set soroswap/api_key'"
	}
	return "Set api.base_url to an http or https URL"
}

// ResolveCredential resolves apiKeyRef and validates baseURL. apiKeyRef may
// be a literal key, "env:VAR", "$secret:name" or empty, in which case the
// APIKeySecret secret is looked up through resolver.
func ResolveCredential(ctx context.Context, resolver *Resolver, apiKeyRef, baseURL string) (Credential, error) {
	if err := validateBaseURL(baseURL); err != nil {
		return Credential{}, err
	}

	key, err := resolveAPIKey(ctx, resolver, strings.TrimSpace(apiKeyRef))
	if err != nil {
		return Credential{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Credential{}, &CredentialError{Field: "api_key", Reason: "is empty"}
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return Credential{}, &CredentialError{Field: "api_key", Reason: "contains whitespace"}
	}

	return Credential{APIKey: key, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func resolveAPIKey(ctx context.Context, resolver *Resolver, ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, envRefPrefix):
		name := strings.TrimPrefix(ref, envRefPrefix)
		if name == "" {
			return "", &CredentialError{Field: "api_key", Reason: "has an empty env: reference"}
		}
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			return "", &CredentialError{Field: "api_key", Reason: fmt.Sprintf("references unset environment variable %s", name)}
		}
		return value, nil

	case strings.HasPrefix(ref, secretRefPrefix):
		name := strings.TrimPrefix(ref, secretRefPrefix)
		if name == "" {
			return "", &CredentialError{Field: "api_key", Reason: "has an empty $secret: reference"}
		}
		return lookupSecret(ctx, resolver, name)

	case ref != "":
		return ref, nil

	default:
		return lookupSecret(ctx, resolver, APIKeySecret)
	}
}

func lookupSecret(ctx context.Context, resolver *Resolver, name string) (string, error) {
	if resolver == nil {
		return "", &CredentialError{Field: "api_key", Reason: fmt.Sprintf("secret %q cannot be resolved", name)}
	}
	value, err := resolver.Get(ctx, name)
	if err != nil {
		return "", &CredentialError{Field: "api_key", Reason: fmt.Sprintf("secret %q not found", name), Cause: err}
	}
	return value, nil
}

func validateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return &CredentialError{Field: "base_url", Reason: "is empty"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &CredentialError{Field: "base_url", Reason: "is not a valid URL", Cause: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &CredentialError{Field: "base_url", Reason: fmt.Sprintf("has unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return &CredentialError{Field: "base_url", Reason: "has no host"}
	}
	return nil
}
