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

package dispatch

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadItems(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr string
	}{
		{
			name: "yaml list",
			input: `
- operation: get-protocols
- operation: quote
  assetIn: XLM
  amount: "1000"
`,
			want: 2,
		},
		{
			name:  "json wrapped",
			input: `{"items": [{"operation": "get-pools", "protocols": ["soroswap"]}]}`,
			want:  1,
		},
		{name: "empty", input: "  \n", wantErr: "empty"},
		{name: "scalar", input: "hello", wantErr: "list of objects"},
		{name: "malformed", input: "[{", wantErr: "parsing items"},
		{name: "not an object", input: "- operation: quote\n- 42\n", wantErr: "item 1 is not an object"},
		{name: "items not a list", input: "items: quote", wantErr: "items must be a list"},
		{name: "null item", input: "- operation: quote\n- null\n", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := LoadItems(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, items.Len())
			for i, item := range items {
				assert.Equal(t, i, item.Index)
			}
		})
	}
}

func TestItems_Parameter(t *testing.T) {
	items := NewItems(map[string]any{"operation": "quote", "amount": "5"}, nil)

	v, ok := items.Parameter("amount", 0)
	assert.True(t, ok)
	assert.Equal(t, "5", v)

	_, ok = items.Parameter("amount", 1)
	assert.False(t, ok)

	_, ok = items.Parameter("operation", 7)
	assert.False(t, ok)
}

func TestLoadItems_KeepsLargeNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "json",
			input: `[{"operation":"build","quote":{"amountIn":123456789012345678901234567890,"otherAmountThreshold":9007199254740993}}]`,
		},
		{
			name: "yaml",
			input: `
- operation: build
  quote:
    amountIn: 123456789012345678901234567890
    otherAmountThreshold: 9007199254740993
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := LoadItems(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Equal(t, 1, items.Len())

			quote, ok := items.Parameter("quote", 0)
			require.True(t, ok)

			encoded, err := json.Marshal(quote)
			require.NoError(t, err)
			assert.Contains(t, string(encoded), `"amountIn":123456789012345678901234567890`)
			assert.Contains(t, string(encoded), `"otherAmountThreshold":9007199254740993`)
		})
	}
}

func TestLoadItems_YAMLScalars(t *testing.T) {
	input := `
defaults: &defaults
  network: testnet
  launchtube: true
items:
  - <<: *defaults
    operation: send
    xdr: AAAA
    ratio: 0.5
    hex: 0x1F
`
	items, err := LoadItems(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, items.Len())

	p := items[0].Params
	assert.Equal(t, "testnet", p["network"])
	assert.Equal(t, true, p["launchtube"])
	assert.Equal(t, "send", p["operation"])
	assert.Equal(t, json.Number("0.5"), p["ratio"])
	assert.Equal(t, 31, p["hex"])
}
