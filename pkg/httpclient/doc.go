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

// Package httpclient builds the *http.Client used to reach the aggregator API.
//
// Clients are composed of three layers:
//   - a pooled base transport with TLS 1.2 minimum
//   - a logging layer that sets User-Agent, propagates X-Correlation-ID
//     and logs sanitized URLs
//   - a retry layer with exponential backoff and Retry-After support
//
// Only GET, HEAD and OPTIONS are retried unless AllowNonIdempotentRetry is
// set. Transaction submission is a POST and is never replayed by default.
//
//	cfg := httpclient.DefaultConfig()
//	cfg.UserAgent = "swapflow/1.0"
//	client, err := httpclient.New(cfg)
package httpclient
