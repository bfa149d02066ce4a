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

// Package secrets resolves the API key used for remote calls.
//
// Secrets are looked up through a Resolver that queries backends in priority
// order. Two backends are provided:
//
//   - env: SWAPFLOW_SECRET_<KEY> variables, plus vendor aliases such as
//     SOROSWAP_API_KEY for "soroswap/api_key". Read-only.
//   - keychain: the operating system keychain under the "swapflow" service.
//
// ResolveCredential turns configuration into the run-scoped Credential. A
// configured api_key may be a literal value, an "env:VAR" reference or a
// "$secret:name" reference. When nothing is configured the "soroswap/api_key"
// secret is used.
package secrets
