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

// Package jq runs jq expressions over operation payloads.
package jq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/itchyny/gojq"
)

const (
	// DefaultTimeout bounds a single evaluation.
	DefaultTimeout = 1 * time.Second

	// DefaultMaxInputSize is the largest payload accepted (10MB).
	DefaultMaxInputSize = 10 * 1024 * 1024
)

// Program is a compiled jq expression. It is safe for concurrent use.
type Program struct {
	expression   string
	code         *gojq.Code
	timeout      time.Duration
	maxInputSize int64
}

// Compile parses and compiles expression. Zero limits take the defaults.
func Compile(expression string, timeout time.Duration, maxInputSize int64) (*Program, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("jq expression is empty")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxInputSize <= 0 {
		maxInputSize = DefaultMaxInputSize
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("jq compilation failed: %w", err)
	}

	return &Program{
		expression:   expression,
		code:         code,
		timeout:      timeout,
		maxInputSize: maxInputSize,
	}, nil
}

// String returns the source expression.
func (p *Program) String() string {
	return p.expression
}

// Run evaluates the program against data. No output yields nil, one output
// is returned as-is and several are returned as a slice.
func (p *Program) Run(ctx context.Context, data any) (any, error) {
	input, size, err := normalize(data)
	if err != nil {
		return nil, err
	}
	if size > p.maxInputSize {
		return nil, fmt.Errorf("data size (%d bytes) exceeds maximum (%d bytes)", size, p.maxInputSize)
	}

	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	iter := p.code.RunWithContext(runCtx, input)
	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("execution timeout after %v", p.timeout)
			}
			return nil, err
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// normalize round-trips data through JSON into the value set gojq accepts.
// Integers that overflow int become *big.Int so amounts keep full precision.
func normalize(data any) (any, int64, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal data: %w", err)
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, 0, fmt.Errorf("failed to decode data: %w", err)
	}
	return convertNumbers(v), int64(len(raw)), nil
}

func convertNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		s := x.String()
		if i, err := x.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		if !strings.ContainsAny(s, ".eE") {
			if n, ok := new(big.Int).SetString(s, 10); ok {
				return n
			}
		}
		f, _ := x.Float64()
		return f
	case []any:
		for i := range x {
			x[i] = convertNumbers(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = convertNumbers(x[k])
		}
		return x
	}
	return v
}
