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

package transport

import (
	"fmt"
)

// ErrorType classifies transport errors.
type ErrorType string

const (
	// ErrorTypeConnection indicates network or DNS errors
	ErrorTypeConnection ErrorType = "connection"

	// ErrorTypeTimeout indicates request timeout or deadline exceeded
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeAuth indicates 401 or 403
	ErrorTypeAuth ErrorType = "auth"

	// ErrorTypeRateLimit indicates 429
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeNotFound indicates 404
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeServer indicates 5xx
	ErrorTypeServer ErrorType = "server"

	// ErrorTypeClient indicates any other 4xx
	ErrorTypeClient ErrorType = "client"

	// ErrorTypeInvalidReq indicates a request that could not be built
	ErrorTypeInvalidReq ErrorType = "invalid_request"

	// ErrorTypeCancelled indicates the context was cancelled
	ErrorTypeCancelled ErrorType = "cancelled"
)

// TransportError is returned by Transport.Execute for every failure.
type TransportError struct {
	Type ErrorType

	// StatusCode is zero for non-HTTP failures.
	StatusCode int

	// Message is safe to display; credentials are never included.
	Message string

	RequestID string

	// RetryAfter is the raw Retry-After header of a 429 response.
	RetryAfter string

	// Body is the raw error response body, if any.
	Body []byte

	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsType reports whether the error is of type t.
func (e *TransportError) IsType(t ErrorType) bool {
	return e.Type == t
}

// TypeForStatus maps an HTTP status to an ErrorType.
func TypeForStatus(status int) ErrorType {
	switch {
	case status == 401 || status == 403:
		return ErrorTypeAuth
	case status == 404:
		return ErrorTypeNotFound
	case status == 408:
		return ErrorTypeTimeout
	case status == 429:
		return ErrorTypeRateLimit
	case status >= 500:
		return ErrorTypeServer
	default:
		return ErrorTypeClient
	}
}
