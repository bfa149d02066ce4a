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
	"errors"
	"fmt"
	"net/http"

	"github.com/tombee/swapflow/internal/operation/transport"
)

// ErrorType classifies operation errors.
type ErrorType string

const (
	// ErrorTypeValidation indicates invalid parameters or a 400/422 response
	ErrorTypeValidation ErrorType = "validation_error"

	// ErrorTypeUnknownOperation indicates an identifier outside the registry
	ErrorTypeUnknownOperation ErrorType = "unknown_operation"

	// ErrorTypeCoercion indicates a raw value that could not be converted
	ErrorTypeCoercion ErrorType = "coercion_error"

	// ErrorTypeAuth indicates authentication or authorization failure (401, 403)
	ErrorTypeAuth ErrorType = "auth_error"

	// ErrorTypeNotFound indicates resource not found (404)
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeRateLimit indicates rate limit exceeded (429)
	ErrorTypeRateLimit ErrorType = "rate_limited"

	// ErrorTypeServer indicates server-side error (5xx)
	ErrorTypeServer ErrorType = "server_error"

	// ErrorTypeTimeout indicates a request timeout or deadline
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeConnection indicates network/DNS error or cancellation
	ErrorTypeConnection ErrorType = "connection_error"
)

// Error is an operation failure with classification.
type Error struct {
	Type ErrorType

	// Message is the human-readable description.
	Message string

	// Param names the offending parameter, if any.
	Param string

	// StatusCode is the HTTP status of a remote failure.
	StatusCode int

	// RequestID from the remote API.
	RequestID string

	// SuggestText provides guidance on how to resolve the error.
	SuggestText string

	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request-id: %s)", msg, e.RequestID)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsUserVisible implements pkg/errors.UserVisibleError.
func (e *Error) IsUserVisible() bool {
	return true
}

// UserMessage implements pkg/errors.UserVisibleError.
func (e *Error) UserMessage() string {
	return e.Message
}

// Suggestion implements pkg/errors.UserVisibleError.
func (e *Error) Suggestion() string {
	return e.SuggestText
}

// IsRemote reports whether the failure came from the remote call rather
// than from the item's own parameters.
func (e *Error) IsRemote() bool {
	switch e.Type {
	case ErrorTypeUnknownOperation, ErrorTypeCoercion:
		return false
	case ErrorTypeValidation:
		return e.StatusCode > 0
	}
	return true
}

// TypeOf returns the ErrorType of err, or "" if err is not an *Error.
func TypeOf(err error) ErrorType {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr.Type
	}
	return ""
}

// CoercionError reports a raw parameter value that could not be converted
// to its declared type.
type CoercionError struct {
	Param  string
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *CoercionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parameter %q: %s: %v", e.Param, e.Reason, e.Cause)
	}
	return fmt.Sprintf("parameter %q: %s", e.Param, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *CoercionError) Unwrap() error {
	return e.Cause
}

func coercionError(param, reason string, cause error) *Error {
	return &Error{
		Type:        ErrorTypeCoercion,
		Message:     fmt.Sprintf("invalid value for parameter %q", param),
		Param:       param,
		SuggestText: reason,
		Cause:       &CoercionError{Param: param, Reason: reason, Cause: cause},
	}
}

// NewUnknownOperationError reports an identifier outside the registry.
func NewUnknownOperationError(id string) *Error {
	return &Error{
		Type:        ErrorTypeUnknownOperation,
		Message:     fmt.Sprintf("unknown operation %q", id),
		Param:       "operation",
		SuggestText: "Run 'swapflow operations' to list supported operations",
	}
}

// NewValidationError reports a parameter that failed validation.
func NewValidationError(param, message string) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
		Param:   param,
	}
}

// ClassifyHTTPError maps a status code to an ErrorType.
func ClassifyHTTPError(statusCode int) ErrorType {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrorTypeAuth
	case statusCode == http.StatusNotFound:
		return ErrorTypeNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case statusCode == http.StatusRequestTimeout:
		return ErrorTypeTimeout
	case statusCode >= 500:
		return ErrorTypeServer
	default:
		return ErrorTypeValidation
	}
}

// ErrorFromHTTPStatus builds an Error for a non-2xx response. message is the
// remote API's own description when it supplied one.
func ErrorFromHTTPStatus(statusCode int, message, requestID string) *Error {
	errType := ClassifyHTTPError(statusCode)
	if message == "" {
		message = fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
	}

	err := &Error{
		Type:       errType,
		StatusCode: statusCode,
		Message:    message,
		RequestID:  requestID,
	}

	switch errType {
	case ErrorTypeAuth:
		err.SuggestText = "Check the API key (api.api_key or the soroswap/api_key secret)"
	case ErrorTypeNotFound:
		err.SuggestText = "Verify the assets, address or pool exist on the selected network"
	case ErrorTypeValidation:
		err.SuggestText = "Check the item parameters against 'swapflow operations <id>'"
	case ErrorTypeRateLimit:
		err.SuggestText = "Lower api.rate_limit or retry later"
	case ErrorTypeServer:
		err.SuggestText = "Retry later or contact the API provider"
	}

	return err
}

// FromTransportError converts a transport failure into an Error. apiMessage
// overrides the generic status text when the response body carried one.
func FromTransportError(err error, apiMessage string) *Error {
	var te *transport.TransportError
	if !errors.As(err, &te) {
		return &Error{Type: ErrorTypeConnection, Message: "request failed", Cause: err}
	}

	if te.StatusCode > 0 {
		return ErrorFromHTTPStatus(te.StatusCode, apiMessage, te.RequestID)
	}

	switch te.Type {
	case transport.ErrorTypeTimeout:
		return &Error{
			Type:        ErrorTypeTimeout,
			Message:     te.Message,
			Cause:       te.Cause,
			SuggestText: "Increase api.timeout or check service responsiveness",
		}
	case transport.ErrorTypeInvalidReq:
		return &Error{Type: ErrorTypeValidation, Message: te.Message, Cause: te.Cause}
	case transport.ErrorTypeCancelled:
		return &Error{Type: ErrorTypeConnection, Message: te.Message, Cause: te.Cause}
	default:
		return &Error{
			Type:        ErrorTypeConnection,
			Message:     te.Message,
			Cause:       te.Cause,
			SuggestText: "Check network connectivity and api.base_url",
		}
	}
}
