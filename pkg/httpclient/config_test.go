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

package httpclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, "swapflow/1.0", cfg.UserAgent)
	assert.False(t, cfg.AllowNonIdempotentRetry)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Timeout:       10 * time.Second,
			RetryAttempts: 2,
			RetryBackoff:  100 * time.Millisecond,
			MaxBackoff:    time.Second,
			UserAgent:     "test/1.0",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		errText string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, errText: "timeout must be > 0"},
		{name: "negative retries", mutate: func(c *Config) { c.RetryAttempts = -1 }, errText: "retry_attempts"},
		{name: "zero backoff with retries", mutate: func(c *Config) { c.RetryBackoff = 0 }, errText: "retry_backoff"},
		{name: "max below base", mutate: func(c *Config) { c.MaxBackoff = time.Millisecond }, errText: "max_backoff"},
		{name: "no retries ignores backoff", mutate: func(c *Config) { c.RetryAttempts = 0; c.RetryBackoff = 0 }},
		{name: "empty user agent", mutate: func(c *Config) { c.UserAgent = "" }, errText: "user_agent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errText == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}
