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

package soroswap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tombee/swapflow/internal/operation/transport"
)

// maxPlainMessage bounds, in runes, a non-JSON error body kept as the message.
const maxPlainMessage = 200

// APIError is the error body returned by the API.
type APIError struct {
	StatusCode int
	Message    string
	ErrorCode  string
	RequestID  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("soroswap api error (status %d)", e.StatusCode)
	if e.ErrorCode != "" {
		msg += " " + e.ErrorCode
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *APIError) message() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// ParseError decodes an error body. message may be a string or a list of
// strings; error carries a short code.
func ParseError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if len(body) == 0 {
		return apiErr
	}

	var raw struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
		Detail  string          `json:"detail"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		text := strings.TrimSpace(string(body))
		if runes := []rune(text); len(runes) > maxPlainMessage {
			text = string(runes[:maxPlainMessage])
		}
		apiErr.Message = text
		return apiErr
	}

	apiErr.ErrorCode = raw.Error
	var single string
	var list []string
	switch {
	case json.Unmarshal(raw.Message, &single) == nil && single != "":
		apiErr.Message = single
	case json.Unmarshal(raw.Message, &list) == nil && len(list) > 0:
		apiErr.Message = strings.Join(list, "; ")
	case raw.Detail != "":
		apiErr.Message = raw.Detail
	default:
		apiErr.Message = raw.Error
	}
	return apiErr
}

// parseTransportError extracts the API error from a status failure. It
// returns nil for network failures.
func parseTransportError(err error) *APIError {
	var te *transport.TransportError
	if !errors.As(err, &te) || te.StatusCode == 0 {
		return nil
	}
	apiErr := ParseError(te.StatusCode, te.Body)
	apiErr.RequestID = te.RequestID
	return apiErr
}
