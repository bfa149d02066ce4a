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

// Package transport carries operation requests to the remote trading API.
//
// The transport layer owns protocol concerns (authentication, rate limiting,
// status classification) so that the remote client only deals with routes
// and payloads. Retries live below this layer in pkg/httpclient and only
// apply to idempotent methods.
package transport

import (
	"context"
	"net/http"
)

// Transport executes requests against the remote API.
type Transport interface {
	// Execute sends a request and returns a response.
	// Returns *TransportError on failure, including non-2xx statuses.
	Execute(ctx context.Context, req *Request) (*Response, error)

	// Name returns the transport identifier.
	Name() string

	// SetRateLimiter configures rate limiting applied before each request.
	SetRateLimiter(limiter RateLimiter)
}

// Request is a transport-agnostic request.
type Request struct {
	// Method is the HTTP method. Required.
	Method string

	// URL is the full request URL. Required.
	URL string

	// Headers override the transport defaults.
	Headers map[string]string

	// Body is sent as application/json unless Headers sets Content-Type.
	Body []byte
}

// Response is a successful (2xx) response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte

	// RequestID is the X-Request-ID reported by the server, if any.
	RequestID string
}

// RateLimiter blocks until a request may proceed.
type RateLimiter interface {
	// Wait returns an error if ctx is done before a request is allowed.
	Wait(ctx context.Context) error
}
