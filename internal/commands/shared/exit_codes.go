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

package shared

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tombee/swapflow/internal/secrets"
	pkgerrors "github.com/tombee/swapflow/pkg/errors"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitRunFailed       = 1
	ExitInvalidInput    = 2
	ExitCredentialError = 4
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewRunFailedError reports a run aborted by an item failure.
func NewRunFailedError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitRunFailed, Message: msg, Cause: cause}
}

// NewInvalidInputError reports unreadable items, flags or configuration.
func NewInvalidInputError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitInvalidInput, Message: msg, Cause: cause}
}

// NewCredentialError reports a missing or malformed credential.
func NewCredentialError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitCredentialError, Message: msg, Cause: cause}
}

// ExitCode maps err to a process exit code. Credential errors map to
// ExitCredentialError even when not wrapped in an ExitError.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var credErr *secrets.CredentialError
	if errors.As(err, &credErr) {
		return ExitCredentialError
	}
	return ExitRunFailed
}

// HandleExitError prints err and exits with its code.
func HandleExitError(err error) {
	if err == nil {
		return
	}
	os.Exit(WriteError(os.Stderr, err))
}

// WriteError prints err and any user-facing suggestion to w and returns
// the exit code.
func WriteError(w io.Writer, err error) int {
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(w, "Error:", msg)
	}
	if uv, ok := pkgerrors.FindUserVisible(err); ok {
		if suggestion := uv.Suggestion(); suggestion != "" {
			fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
		}
	}
	return ExitCode(err)
}
