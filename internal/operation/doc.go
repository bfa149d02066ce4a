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

// Package operation defines the closed set of remote trading operations.
//
// The Registry maps each operation ID to its ordered parameter declarations
// and to an Invoke function that calls exactly one method of Remote. Raw
// item values are coerced per parameter (Coerce), decoded into a typed
// per-operation struct with mapstructure, and validated with validator/v10
// before the remote call is made.
//
// Every failure surfaced by this package is an *Error whose Type tells the
// caller whether the item was malformed (validation_error, coercion_error,
// unknown_operation) or the remote call failed (auth_error, not_found,
// rate_limited, server_error, timeout, connection_error).
package operation
