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

// Package soroswap is the client for the Soroswap aggregator API. It
// implements operation.Remote with one method per operation.
package soroswap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/tombee/swapflow/internal/operation"
	"github.com/tombee/swapflow/internal/operation/transport"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.soroswap.finance"

// Config configures a Client.
type Config struct {
	// BaseURL is the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// Transport carries requests and applies the bearer credential. Required.
	Transport transport.Transport

	Logger *slog.Logger
}

// Client calls the aggregator API.
type Client struct {
	baseURL   *url.URL
	transport transport.Transport
	logger    *slog.Logger
}

var _ operation.Remote = (*Client)(nil)

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("soroswap: transport is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("soroswap: invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("soroswap: base URL scheme must be http or https, got %q", base.Scheme)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL:   base,
		transport: cfg.Transport,
		logger:    cfg.Logger.With("component", "soroswap"),
	}, nil
}

// buildURL joins escaped path segments onto the base URL.
func (c *Client) buildURL(query url.Values, segments ...string) string {
	u := *c.baseURL
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.Path = c.baseURL.Path + "/" + strings.Join(segments, "/")
	u.RawPath = c.baseURL.EscapedPath() + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func networkQuery(network operation.Network) url.Values {
	q := url.Values{}
	if network != "" {
		q.Set("network", string(network))
	}
	return q
}

// call sends one request and decodes the JSON response. Numbers are kept
// as json.Number so large amounts survive re-encoding.
func (c *Client) call(ctx context.Context, method, target string, body any) (any, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, &operation.Error{
				Type:    operation.ErrorTypeValidation,
				Message: "failed to encode request body",
				Cause:   err,
			}
		}
	}

	start := time.Now()
	resp, err := c.transport.Execute(ctx, &transport.Request{
		Method: method,
		URL:    target,
		Body:   payload,
	})
	if err != nil {
		apiErr := parseTransportError(err)
		c.logger.Debug("api call failed",
			"method", method,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return nil, operation.FromTransportError(err, apiErr.message())
	}

	c.logger.Debug("api call",
		"method", method,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, &operation.Error{
			Type:       operation.ErrorTypeServer,
			Message:    "response is not valid JSON",
			StatusCode: resp.StatusCode,
			RequestID:  resp.RequestID,
			Cause:      err,
		}
	}
	return out, nil
}
