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

package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const (
	// EnvBackendPriority is the highest so the environment can override the keychain.
	EnvBackendPriority = 100

	envSecretPrefix = "SWAPFLOW_SECRET_"
)

// EnvBackend reads secrets from environment variables. Two names are tried
// for a key such as "soroswap/api_key":
//  1. SWAPFLOW_SECRET_SOROSWAP_API_KEY
//  2. SOROSWAP_API_KEY
type EnvBackend struct {
	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvBackend creates a backend over the process environment.
func NewEnvBackend() *EnvBackend {
	return &EnvBackend{lookup: os.LookupEnv, environ: os.Environ}
}

// Name returns the backend identifier.
func (e *EnvBackend) Name() string {
	return "env"
}

// Get retrieves a secret from the environment.
func (e *EnvBackend) Get(ctx context.Context, key string) (string, error) {
	if value, ok := e.lookup(normalizeKey(key)); ok && value != "" {
		return value, nil
	}
	if alias := vendorAlias(key); alias != "" {
		if value, ok := e.lookup(alias); ok && value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: environment variable not set", ErrSecretNotFound)
}

// Set returns ErrReadOnlyBackend.
func (e *EnvBackend) Set(ctx context.Context, key string, value string) error {
	return ErrReadOnlyBackend
}

// Delete returns ErrReadOnlyBackend.
func (e *EnvBackend) Delete(ctx context.Context, key string) error {
	return ErrReadOnlyBackend
}

// List returns the keys of all non-empty SWAPFLOW_SECRET_* variables.
func (e *EnvBackend) List(ctx context.Context) ([]string, error) {
	var keys []string
	for _, kv := range e.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" || !strings.HasPrefix(name, envSecretPrefix) {
			continue
		}
		keys = append(keys, denormalizeKey(name))
	}
	return keys, nil
}

// Available always returns true.
func (e *EnvBackend) Available() bool {
	return true
}

// Priority returns EnvBackendPriority.
func (e *EnvBackend) Priority() int {
	return EnvBackendPriority
}

// ReadOnly returns true.
func (e *EnvBackend) ReadOnly() bool {
	return true
}

// normalizeKey maps "soroswap/api_key" to "SWAPFLOW_SECRET_SOROSWAP_API_KEY".
func normalizeKey(key string) string {
	return envSecretPrefix + strings.ToUpper(strings.ReplaceAll(key, "/", "_"))
}

// denormalizeKey reverses normalizeKey. The conversion is lossy: only the
// first underscore becomes a slash, which matches "<vendor>/<name>" keys.
func denormalizeKey(envVar string) string {
	key := strings.ToLower(strings.TrimPrefix(envVar, envSecretPrefix))
	return strings.Replace(key, "_", "/", 1)
}

// vendorAlias maps "<vendor>/api_key" to "<VENDOR>_API_KEY".
func vendorAlias(key string) string {
	vendor, name, ok := strings.Cut(key, "/")
	if !ok || vendor == "" || name != "api_key" {
		return ""
	}
	return strings.ToUpper(vendor) + "_API_KEY"
}
