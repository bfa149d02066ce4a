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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// ParamType is the semantic type of a parameter.
type ParamType string

const (
	// TypeString is free text.
	TypeString ParamType = "string"

	// TypeBoolean accepts a bool or "true"/"false".
	TypeBoolean ParamType = "boolean"

	// TypeEnum is one of Param.Values, matched exactly.
	TypeEnum ParamType = "enum"

	// TypeBigInt is a base-10 string coerced to *big.Int.
	TypeBigInt ParamType = "bigint"

	// TypeJSON is a structured value or a string holding JSON.
	TypeJSON ParamType = "json"

	// TypeProtocolSet is a list of protocols matched case-insensitively.
	TypeProtocolSet ParamType = "protocol-set"

	// TypeCommaList is a comma-separated string split into trimmed segments.
	TypeCommaList ParamType = "comma-list"
)

// Param declares one named parameter of an operation.
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string

	// Values is the closed set for TypeEnum and TypeProtocolSet.
	Values []string

	// AllowEmpty accepts "" for TypeEnum.
	AllowEmpty bool

	// LowerCase lower-cases TypeProtocolSet members before transmission.
	LowerCase bool

	// Default is used when the item does not carry the parameter.
	Default any
}

// Coerce converts raw into the Go value for p:
//
//	TypeString, TypeEnum -> string
//	TypeBoolean          -> bool
//	TypeBigInt           -> *big.Int
//	TypeJSON             -> any (decoded JSON)
//	TypeProtocolSet      -> []string
//	TypeCommaList        -> []string
//
// A nil raw value takes p.Default. Failures are *Error of type coercion_error
// naming p.Name.
func Coerce(p Param, raw any) (any, error) {
	if raw == nil {
		raw = p.Default
	}

	switch p.Type {
	case TypeString:
		if raw == nil {
			return "", nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, coercionError(p.Name, fmt.Sprintf("expected string, got %T", raw), nil)
		}
		return s, nil

	case TypeBoolean:
		switch v := raw.(type) {
		case nil:
			return false, nil
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, coercionError(p.Name, fmt.Sprintf("expected boolean, got %q", v), nil)
			}
			return b, nil
		}
		return nil, coercionError(p.Name, fmt.Sprintf("expected boolean, got %T", raw), nil)

	case TypeEnum:
		s, _ := raw.(string)
		if raw != nil && !isString(raw) {
			return nil, coercionError(p.Name, fmt.Sprintf("expected one of %s, got %T", strings.Join(p.Values, ", "), raw), nil)
		}
		if s == "" && p.AllowEmpty {
			return "", nil
		}
		if !slices.Contains(p.Values, s) {
			return nil, coercionError(p.Name, fmt.Sprintf("%q is not one of %s", s, strings.Join(p.Values, ", ")), nil)
		}
		return s, nil

	case TypeBigInt:
		return coerceBigInt(p.Name, raw)

	case TypeJSON:
		return coerceJSON(p.Name, raw)

	case TypeProtocolSet:
		return coerceProtocols(p, raw)

	case TypeCommaList:
		return coerceCommaList(p.Name, raw)
	}

	return nil, coercionError(p.Name, fmt.Sprintf("unsupported parameter type %q", p.Type), nil)
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// ParseBigInt parses a base-10 integer of arbitrary size. Surrounding
// whitespace is ignored.
func ParseBigInt(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	return new(big.Int).SetString(s, 10)
}

func coerceBigInt(name string, raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, coercionError(name, "expected a decimal integer string, got nothing", nil)
	case *big.Int:
		return new(big.Int).Set(v), nil
	case string:
		n, ok := ParseBigInt(v)
		if !ok {
			return nil, coercionError(name, fmt.Sprintf("%q is not a base-10 integer", v), nil)
		}
		return n, nil
	case json.Number:
		n, ok := ParseBigInt(v.String())
		if !ok {
			return nil, coercionError(name, fmt.Sprintf("%q is not a base-10 integer", v.String()), nil)
		}
		return n, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	}
	return nil, coercionError(name, fmt.Sprintf("expected a decimal integer string, got %T", raw), nil)
}

func coerceJSON(name string, raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, coercionError(name, "expected JSON, got nothing", nil)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, coercionError(name, "expected JSON, got an empty string", nil)
		}
		return decodeJSON(name, []byte(v))
	case []byte:
		return decodeJSON(name, v)
	}
	return raw, nil
}

// decodeJSON keeps numbers as json.Number so amounts beyond float64
// precision are re-encoded verbatim.
func decodeJSON(name string, data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, coercionError(name, "malformed JSON", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, coercionError(name, "malformed JSON", errors.New("trailing data after JSON value"))
	}
	return out, nil
}

// stringList accepts a []string, a []any of strings, or a single string.
func stringList(name string, raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		return slices.Clone(v), nil
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, coercionError(name, fmt.Sprintf("element %d: expected string, got %T", i, e), nil)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, coercionError(name, fmt.Sprintf("expected a list of strings, got %T", raw), nil)
}

func coerceProtocols(p Param, raw any) (any, error) {
	if s, ok := raw.(string); ok {
		raw = splitComma(s)
	}
	list, err := stringList(p.Name, raw)
	if err != nil {
		return nil, err
	}

	values := p.Values
	if len(values) == 0 {
		values = Protocols
	}

	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, proto := range list {
		if !slices.ContainsFunc(values, func(v string) bool { return strings.EqualFold(v, proto) }) {
			return nil, coercionError(p.Name, fmt.Sprintf("unknown protocol %q (want %s)", proto, strings.Join(values, ", ")), nil)
		}
		folded := strings.ToLower(proto)
		if seen[folded] {
			continue
		}
		seen[folded] = true
		if p.LowerCase {
			proto = folded
		}
		out = append(out, proto)
	}
	return out, nil
}

func coerceCommaList(name string, raw any) (any, error) {
	if s, ok := raw.(string); ok {
		return splitComma(s), nil
	}
	list, err := stringList(name, raw)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// splitComma splits on "," and trims each segment. Empty segments are dropped.
func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
