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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(vars map[string]string) *EnvBackend {
	return &EnvBackend{
		lookup: func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		},
		environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
	}
}

func TestEnvBackend_Get(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		envVars   map[string]string
		wantValue string
		wantErr   error
	}{
		{
			name:      "normalized key found",
			key:       "soroswap/api_key",
			envVars:   map[string]string{"SWAPFLOW_SECRET_SOROSWAP_API_KEY": "sk-normalized"},
			wantValue: "sk-normalized",
		},
		{
			name:      "vendor alias found",
			key:       "soroswap/api_key",
			envVars:   map[string]string{"SOROSWAP_API_KEY": "sk-alias"},
			wantValue: "sk-alias",
		},
		{
			name: "normalized takes precedence over alias",
			key:  "soroswap/api_key",
			envVars: map[string]string{
				"SWAPFLOW_SECRET_SOROSWAP_API_KEY": "sk-normalized",
				"SOROSWAP_API_KEY":                 "sk-alias",
			},
			wantValue: "sk-normalized",
		},
		{
			name:    "empty value is not found",
			key:     "soroswap/api_key",
			envVars: map[string]string{"SOROSWAP_API_KEY": ""},
			wantErr: ErrSecretNotFound,
		},
		{
			name:    "no alias for other names",
			key:     "soroswap/webhook",
			envVars: map[string]string{"SOROSWAP_WEBHOOK": "x"},
			wantErr: ErrSecretNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fakeEnv(tt.envVars).Get(context.Background(), tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, got)
		})
	}
}

func TestEnvBackend_ReadOnly(t *testing.T) {
	backend := NewEnvBackend()
	ctx := context.Background()

	assert.True(t, backend.ReadOnly())
	assert.True(t, backend.Available())
	assert.Equal(t, EnvBackendPriority, backend.Priority())
	assert.ErrorIs(t, backend.Set(ctx, "a/b", "v"), ErrReadOnlyBackend)
	assert.ErrorIs(t, backend.Delete(ctx, "a/b"), ErrReadOnlyBackend)
}

func TestEnvBackend_List(t *testing.T) {
	backend := fakeEnv(map[string]string{
		"SWAPFLOW_SECRET_SOROSWAP_API_KEY": "sk",
		"SWAPFLOW_SECRET_EMPTY":            "",
		"HOME":                             "/root",
	})

	keys, err := backend.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"soroswap/api_key"}, keys)
}

func TestEnvBackend_ProcessEnvironment(t *testing.T) {
	t.Setenv("SWAPFLOW_SECRET_SOROSWAP_API_KEY", "")
	t.Setenv("SOROSWAP_API_KEY", "sk-from-env")

	got, err := NewEnvBackend().Get(context.Background(), APIKeySecret)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", got)
}

func TestKeyMapping(t *testing.T) {
	assert.Equal(t, "SWAPFLOW_SECRET_SOROSWAP_API_KEY", normalizeKey("soroswap/api_key"))
	assert.Equal(t, "soroswap/api_key", denormalizeKey("SWAPFLOW_SECRET_SOROSWAP_API_KEY"))
	assert.Equal(t, "SOROSWAP_API_KEY", vendorAlias("soroswap/api_key"))
	assert.Empty(t, vendorAlias("api_key"))
}
