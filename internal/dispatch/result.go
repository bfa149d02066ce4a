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

package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/tombee/swapflow/internal/operation"
)

// Result is the outcome of one item. Exactly one of Output and Error is
// meaningful; Success reports which.
type Result struct {
	Index     int               `json:"index"`
	Operation string            `json:"operation,omitempty"`
	Network   operation.Network `json:"network,omitempty"`
	Output    any               `json:"output,omitempty"`
	Error     *ResultError      `json:"error,omitempty"`

	// SelectError is set when the output projection failed. Output then
	// holds the unprojected remote payload.
	SelectError string `json:"select_error,omitempty"`

	// Err is the original failure.
	Err error `json:"-"`
}

// Success reports whether the item succeeded.
func (r Result) Success() bool {
	return r.Error == nil
}

// ResultError is the serializable description of a failed item.
type ResultError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Param      string `json:"param,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func newResultError(err error) *ResultError {
	var opErr *operation.Error
	if errors.As(err, &opErr) {
		return &ResultError{
			Type:       string(opErr.Type),
			Message:    err.Error(),
			Param:      opErr.Param,
			StatusCode: opErr.StatusCode,
			Suggestion: opErr.SuggestText,
		}
	}
	errType := "error"
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		errType = "cancelled"
	}
	return &ResultError{Type: errType, Message: err.Error()}
}

// ItemError reports the item that stopped a fail-fast run.
type ItemError struct {
	Index     int
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("item %d (%s): %v", e.Index, e.Operation, e.Err)
	}
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

// Unwrap returns the item's failure.
func (e *ItemError) Unwrap() error {
	return e.Err
}

// Summary counts results by outcome.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Summarize counts results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Success() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
