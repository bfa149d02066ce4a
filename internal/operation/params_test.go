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

package operation

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce_BigInt(t *testing.T) {
	p := Param{Name: "amount", Type: TypeBigInt, Required: true}

	want, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)

	tests := []struct {
		name    string
		raw     any
		want    *big.Int
		wantErr bool
	}{
		{name: "large decimal string", raw: "123456789012345678901234567890", want: want},
		{name: "surrounding whitespace", raw: " 42 ", want: big.NewInt(42)},
		{name: "yaml integer", raw: 7, want: big.NewInt(7)},
		{name: "negative", raw: "-5", want: big.NewInt(-5)},
		{name: "letters", raw: "abc", wantErr: true},
		{name: "decimal point", raw: "1.5", wantErr: true},
		{name: "hex", raw: "0x10", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "float", raw: 1.5, wantErr: true},
		{name: "missing", raw: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(p, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ErrorTypeCoercion, TypeOf(err))
				assert.Contains(t, err.Error(), `"amount"`)
				return
			}
			require.NoError(t, err)
			require.IsType(t, &big.Int{}, got)
			assert.Zero(t, tt.want.Cmp(got.(*big.Int)), "got %s", got)
		})
	}
}

func TestCoerce_BigIntDefault(t *testing.T) {
	p := Param{Name: "amountAMin", Type: TypeBigInt, Default: "0"}
	got, err := Coerce(p, nil)
	require.NoError(t, err)
	assert.Zero(t, got.(*big.Int).Sign())
}

func TestCoerce_CommaList(t *testing.T) {
	p := Param{Name: "assets", Type: TypeCommaList}

	tests := []struct {
		raw  any
		want []string
	}{
		{"A, B ,C", []string{"A", "B", "C"}},
		{"XLM", []string{"XLM"}},
		{"A,,B, ", []string{"A", "B"}},
		{"", []string{}},
		{[]any{" A", "B "}, []string{"A", "B"}},
	}
	for _, tt := range tests {
		got, err := Coerce(p, tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "raw %v", tt.raw)
	}

	_, err := Coerce(p, []any{"A", 3})
	assert.Error(t, err)
}

func TestCoerce_ProtocolSet(t *testing.T) {
	raw := []any{"SOROSWAP", "AQUA"}

	lowered, err := Coerce(protocolParam(true), raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"soroswap", "aqua"}, lowered)

	asGiven, err := Coerce(protocolParam(false), raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"SOROSWAP", "AQUA"}, asGiven)

	fromString, err := Coerce(protocolParam(true), "Phoenix, sdex")
	require.NoError(t, err)
	assert.Equal(t, []string{"phoenix", "sdex"}, fromString)

	_, err = Coerce(protocolParam(false), []string{"uniswap"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "protocols")

	empty, err := Coerce(protocolParam(false), []any{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	deduped, err := Coerce(protocolParam(true), "SOROSWAP, soroswap, aqua")
	require.NoError(t, err)
	assert.Equal(t, []string{"soroswap", "aqua"}, deduped)

	dedupedAsGiven, err := Coerce(protocolParam(false), []any{"Soroswap", "SOROSWAP"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Soroswap"}, dedupedAsGiven)
}

func TestCoerce_Enum(t *testing.T) {
	trade := Param{Name: "tradeType", Type: TypeEnum, Values: stringsOf(ExactIn, ExactOut), Default: "EXACT_IN"}

	got, err := Coerce(trade, "EXACT_OUT")
	require.NoError(t, err)
	assert.Equal(t, "EXACT_OUT", got)

	got, err = Coerce(trade, nil)
	require.NoError(t, err)
	assert.Equal(t, "EXACT_IN", got)

	_, err = Coerce(trade, "exact_in")
	assert.Error(t, err)

	_, err = Coerce(trade, 3)
	assert.Error(t, err)

	list := Param{Name: "assetListName", Type: TypeEnum, Values: []string{"SOROSWAP"}, AllowEmpty: true}
	got, err = Coerce(list, "")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestCoerce_BooleanStringJSON(t *testing.T) {
	b := Param{Name: "launchtube", Type: TypeBoolean}
	for raw, want := range map[any]bool{true: true, "false": false, "TRUE": true} {
		got, err := Coerce(b, raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := Coerce(b, "yes please")
	assert.Error(t, err)

	s := Param{Name: "xdr", Type: TypeString}
	got, err := Coerce(s, "AAAA")
	require.NoError(t, err)
	assert.Equal(t, "AAAA", got)
	_, err = Coerce(s, 12)
	assert.Error(t, err)

	j := Param{Name: "quote", Type: TypeJSON}
	got, err = Coerce(j, `{"amountIn":"10"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"amountIn": "10"}, got)

	obj := map[string]any{"amountOut": "5"}
	got, err = Coerce(j, obj)
	require.NoError(t, err)
	assert.Equal(t, obj, got)

	_, err = Coerce(j, `{"broken"`)
	require.Error(t, err)
	var ce *CoercionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "quote", ce.Param)
}

func TestCoerce_JSONKeepsLargeNumbers(t *testing.T) {
	j := Param{Name: "quote", Type: TypeJSON}
	const quote = `{"amountIn":123456789012345678901234567890,"otherAmountThreshold":9007199254740993,"path":["a","b"]}`

	tests := []struct {
		name string
		raw  any
	}{
		{name: "string", raw: quote},
		{name: "bytes", raw: []byte(quote)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(j, tt.raw)
			require.NoError(t, err)

			m, ok := got.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, json.Number("123456789012345678901234567890"), m["amountIn"])

			encoded, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, quote, string(encoded))
			assert.Contains(t, string(encoded), "9007199254740993")
		})
	}

	_, err := Coerce(j, `{"a":1} {"b":2}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed JSON")
}
