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

package operation

import (
	"context"
	"fmt"
	"strings"
)

// InvokeFunc decodes values and performs one remote call.
type InvokeFunc func(ctx context.Context, remote Remote, network Network, values Values) (any, error)

// Spec is the static description of one operation.
type Spec struct {
	ID          ID
	Description string
	Category    string

	// Mutating marks operations that build, submit or move funds.
	Mutating bool

	// Params are declared in the order they are read from an item.
	Params []Param

	Invoke InvokeFunc
}

// Gather reads and coerces every declared parameter through read. read
// reports false when the item does not carry the parameter. The first
// failing parameter stops gathering.
func (s *Spec) Gather(read func(name string) (any, bool)) (Values, error) {
	values := make(Values, len(s.Params))
	for _, p := range s.Params {
		raw, ok := read(p.Name)
		if !ok || raw == nil {
			if p.Required && p.Default == nil {
				return nil, NewValidationError(p.Name, fmt.Sprintf("%s is a required parameter", p.Name))
			}
			raw = nil
		}
		v, err := Coerce(p, raw)
		if err != nil {
			return nil, err
		}
		values[p.Name] = v
	}
	return values, nil
}

// Registry maps operation IDs to their specs. It is immutable after
// NewRegistry and safe for concurrent use.
type Registry struct {
	specs map[ID]*Spec
	order []ID
}

// NewRegistry returns the registry of all supported operations.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[ID]*Spec, len(IDs))}
	for _, spec := range builtinSpecs() {
		r.specs[spec.ID] = spec
		r.order = append(r.order, spec.ID)
	}
	return r
}

// Lookup returns the declaration for id, or an unknown_operation error.
func (r *Registry) Lookup(id string) (*Spec, error) {
	spec, ok := r.specs[ID(id)]
	if !ok {
		return nil, NewUnknownOperationError(id)
	}
	return spec, nil
}

// List returns every spec in registry order.
func (r *Registry) List() []*Spec {
	out := make([]*Spec, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.specs[id])
	}
	return out
}

// Describe renders a human-readable summary of one operation.
func (r *Registry) Describe(id string) (string, error) {
	spec, err := r.Lookup(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n  %s\n", spec.ID, spec.Category, spec.Description)
	if len(spec.Params) == 0 {
		b.WriteString("\n  no parameters besides network\n")
		return b.String(), nil
	}

	b.WriteString("\nParameters:\n")
	for _, p := range spec.Params {
		req := "optional"
		if p.Required {
			req = "required"
		}
		fmt.Fprintf(&b, "  %-16s %-13s %-9s %s", p.Name, p.Type, req, p.Description)
		if len(p.Values) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(p.Values, "|"))
		}
		if p.Default != nil {
			fmt.Fprintf(&b, " (default %v)", p.Default)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
