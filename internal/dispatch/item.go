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

// Package dispatch runs one remote operation per input item and returns one
// result per item, in input order.
//
// Each item names its operation and, optionally, its network. Parameters are
// read through a ParameterReader, coerced by the operation registry and passed
// to the Remote. Failures are recorded per item when ContinueOnFailure is set;
// otherwise the first failure stops the run with an *ItemError.
package dispatch

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reserved item keys read by the dispatcher itself.
const (
	OperationKey = "operation"
	NetworkKey   = "network"
)

// ParameterReader returns the raw configuration value of a named parameter
// for the item at index. ok is false when the item does not set it.
type ParameterReader interface {
	Parameter(name string, index int) (value any, ok bool)
	Len() int
}

// Item is one unit of input. Params is read-only during dispatch.
type Item struct {
	Index  int
	Params map[string]any
}

// Items is an ordered item sequence. It implements ParameterReader.
type Items []Item

// Parameter implements ParameterReader.
func (s Items) Parameter(name string, index int) (any, bool) {
	if index < 0 || index >= len(s) {
		return nil, false
	}
	v, ok := s[index].Params[name]
	return v, ok
}

// Len implements ParameterReader.
func (s Items) Len() int {
	return len(s)
}

// NewItems indexes params by position.
func NewItems(params ...map[string]any) Items {
	items := make(Items, len(params))
	for i, p := range params {
		items[i] = Item{Index: i, Params: p}
	}
	return items
}

// LoadItems reads a YAML or JSON document holding a list of item objects,
// either at the top level or under an "items" key. Numbers are kept as
// json.Number so large amounts and opaque JSON values survive unchanged.
func LoadItems(r io.Reader) (Items, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("items document is empty")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing items: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, fmt.Errorf("items document is empty")
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
	case yaml.MappingNode:
		root = mappingValue(root, "items")
		if root == nil {
			return NewItems(), nil
		}
		if root.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("parsing items: items must be a list")
		}
	default:
		return nil, fmt.Errorf("items must be a list of objects")
	}

	list := make([]map[string]any, len(root.Content))
	for i, n := range root.Content {
		v, err := nodeValue(n)
		if err != nil {
			return nil, fmt.Errorf("parsing items: item %d: %w", i, err)
		}
		switch m := v.(type) {
		case nil:
			list[i] = map[string]any{}
		case map[string]any:
			list[i] = m
		default:
			return nil, fmt.Errorf("parsing items: item %d is not an object", i)
		}
	}
	return NewItems(list...), nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// nodeValue converts n to plain Go values. Numeric scalars written in JSON
// number syntax become json.Number.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeValue(n.Alias)

	case yaml.ScalarNode:
		if (n.Tag == "!!int" || n.Tag == "!!float") && isJSONNumber(n.Value) {
			return json.Number(n.Value), nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil

	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			v, err := nodeValue(val)
			if err != nil {
				return nil, err
			}
			if key.Tag == "!!merge" {
				if err := merge(out, v); err != nil {
					return nil, fmt.Errorf("line %d: %w", key.Line, err)
				}
				continue
			}
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: keys must be scalars", key.Line)
			}
			out[key.Value] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: unsupported node", n.Line)
}

func merge(dst map[string]any, v any) error {
	switch m := v.(type) {
	case map[string]any:
		for k, val := range m {
			if _, ok := dst[k]; !ok {
				dst[k] = val
			}
		}
		return nil
	case []any:
		for _, e := range m {
			if err := merge(dst, e); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("merge value must be a mapping")
}

func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil
}
