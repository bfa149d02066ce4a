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

// Package operations implements 'swapflow operations'.
package operations

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tombee/swapflow/internal/commands/shared"
	"github.com/tombee/swapflow/internal/operation"
)

// ParamInfo describes one declared parameter.
type ParamInfo struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Values      []string `json:"values,omitempty"`
	Default     any      `json:"default,omitempty"`
	Description string   `json:"description,omitempty"`
}

// OperationInfo describes one operation.
type OperationInfo struct {
	ID          string      `json:"id"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Mutating    bool        `json:"mutating"`
	Params      []ParamInfo `json:"params"`
}

// Response is the JSON output of the command.
type Response struct {
	shared.JSONResponse
	Operations []OperationInfo `json:"operations"`
}

// NewCommand creates the operations command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "operations [id]",
		Short: "List operations and their parameters",
		Long: `List every operation an item can name, or show the parameters of one.

Examples:
  swapflow operations
  swapflow operations quote
  swapflow operations --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), operation.NewRegistry(), args)
		},
	}
}

func run(out io.Writer, registry *operation.Registry, args []string) error {
	specs := registry.List()
	if len(args) == 1 {
		spec, err := registry.Lookup(args[0])
		if err != nil {
			return shared.NewInvalidInputError("unknown operation", err)
		}
		specs = []*operation.Spec{spec}
	}

	if shared.GetJSON() {
		resp := Response{JSONResponse: shared.NewJSONResponse("operations", true)}
		for _, spec := range specs {
			resp.Operations = append(resp.Operations, describe(spec))
		}
		return shared.WriteJSON(out, resp)
	}

	if len(args) == 1 {
		text, err := registry.Describe(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
		return nil
	}

	fmt.Fprintf(out, "%-22s %-13s %-9s %s\n", "OPERATION", "CATEGORY", "MUTATING", "DESCRIPTION")
	for _, spec := range specs {
		mutating := "no"
		if spec.Mutating {
			mutating = "yes"
		}
		fmt.Fprintf(out, "%-22s %-13s %-9s %s\n", spec.ID, spec.Category, mutating, spec.Description)
	}
	fmt.Fprintln(out, "\nEvery operation also accepts 'network' (mainnet or testnet).")
	return nil
}

func describe(spec *operation.Spec) OperationInfo {
	info := OperationInfo{
		ID:          string(spec.ID),
		Category:    spec.Category,
		Description: spec.Description,
		Mutating:    spec.Mutating,
		Params:      make([]ParamInfo, 0, len(spec.Params)),
	}
	for _, p := range spec.Params {
		info.Params = append(info.Params, ParamInfo{
			Name:        p.Name,
			Type:        string(p.Type),
			Required:    p.Required,
			Values:      p.Values,
			Default:     p.Default,
			Description: p.Description,
		})
	}
	return info
}
