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
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRemote captures the last call made through Remote.
type recordingRemote struct {
	method  string
	network Network
	args    []any
}

func (r *recordingRemote) record(method string, network Network, args ...any) (any, error) {
	r.method, r.network, r.args = method, network, args
	return map[string]any{"method": method}, nil
}

func (r *recordingRemote) Protocols(_ context.Context, n Network) (any, error) {
	return r.record("Protocols", n)
}
func (r *recordingRemote) Quote(_ context.Context, n Network, req QuoteRequest) (any, error) {
	return r.record("Quote", n, req)
}
func (r *recordingRemote) Build(_ context.Context, n Network, req BuildRequest) (any, error) {
	return r.record("Build", n, req)
}
func (r *recordingRemote) Send(_ context.Context, n Network, req SendRequest) (any, error) {
	return r.record("Send", n, req)
}
func (r *recordingRemote) Pools(_ context.Context, n Network, protocols []string) (any, error) {
	return r.record("Pools", n, protocols)
}
func (r *recordingRemote) PoolByTokens(_ context.Context, n Network, a, b string, protocols []string) (any, error) {
	return r.record("PoolByTokens", n, a, b, protocols)
}
func (r *recordingRemote) AddLiquidity(_ context.Context, n Network, req AddLiquidityRequest) (any, error) {
	return r.record("AddLiquidity", n, req)
}
func (r *recordingRemote) RemoveLiquidity(_ context.Context, n Network, req RemoveLiquidityRequest) (any, error) {
	return r.record("RemoveLiquidity", n, req)
}
func (r *recordingRemote) UserPositions(_ context.Context, n Network, address string) (any, error) {
	return r.record("UserPositions", n, address)
}
func (r *recordingRemote) AssetList(_ context.Context, name AssetListName) (any, error) {
	return r.record("AssetList", "", name)
}
func (r *recordingRemote) Price(_ context.Context, n Network, q PriceQuery) (any, error) {
	return r.record("Price", n, q)
}
func (r *recordingRemote) ContractAddress(_ context.Context, n Network, name ContractName) (any, error) {
	return r.record("ContractAddress", n, name)
}

// run gathers raw through the declaration of id and invokes it on a recording remote.
func run(t *testing.T, id ID, raw map[string]any) (*recordingRemote, error) {
	t.Helper()
	spec, err := NewRegistry().Lookup(string(id))
	require.NoError(t, err)

	values, err := spec.Gather(func(name string) (any, bool) {
		v, ok := raw[name]
		return v, ok
	})
	if err != nil {
		return nil, err
	}

	remote := &recordingRemote{}
	_, err = spec.Invoke(context.Background(), remote, Testnet, values)
	return remote, err
}

func TestRegistry_ListAndLookup(t *testing.T) {
	r := NewRegistry()

	specs := r.List()
	require.Len(t, specs, len(IDs))
	for i, spec := range specs {
		assert.Equal(t, IDs[i], spec.ID)
		assert.NotNil(t, spec.Invoke, spec.ID)
		assert.NotEmpty(t, spec.Description, spec.ID)
	}

	_, err := r.Lookup("doesNotExist")
	require.Error(t, err)
	assert.Equal(t, ErrorTypeUnknownOperation, TypeOf(err))
	assert.Contains(t, err.Error(), "doesNotExist")
}

func TestRegistry_Describe(t *testing.T) {
	out, err := NewRegistry().Describe("quote")
	require.NoError(t, err)
	assert.Contains(t, out, "tradeType")
	assert.Contains(t, out, "EXACT_IN|EXACT_OUT")
	assert.Contains(t, out, "(default EXACT_IN)")

	out, err = NewRegistry().Describe("get-protocols")
	require.NoError(t, err)
	assert.Contains(t, out, "no parameters")
}

func TestInvoke_Quote(t *testing.T) {
	remote, err := run(t, Quote, map[string]any{
		"assetIn":   "XLM",
		"assetOut":  "USDC",
		"amount":    "123456789012345678901234567890",
		"protocols": []any{"SOROSWAP", "AQUA"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Quote", remote.method)
	assert.Equal(t, Testnet, remote.network)
	req := remote.args[0].(QuoteRequest)
	assert.Equal(t, ExactIn, req.TradeType)
	assert.Equal(t, "123456789012345678901234567890", req.Amount.String())
	assert.Equal(t, []string{"SOROSWAP", "AQUA"}, req.Protocols)
}

func TestInvoke_PoolsLowerCaseProtocols(t *testing.T) {
	remote, err := run(t, GetPools, map[string]any{"protocols": []any{"SOROSWAP", "AQUA"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"soroswap", "aqua"}, remote.args[0])

	remote, err = run(t, GetPoolByTokens, map[string]any{
		"assetA":    "A",
		"assetB":    "B",
		"protocols": "Phoenix",
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"A", "B", []string{"phoenix"}}, remote.args)
}

func TestInvoke_EmptyProtocolsFails(t *testing.T) {
	_, err := run(t, GetPools, map[string]any{"protocols": []any{}})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeValidation, TypeOf(err))
	assert.Contains(t, err.Error(), "protocols")
}

func TestInvoke_Price(t *testing.T) {
	remote, err := run(t, GetPrice, map[string]any{"assets": "XLM"})
	require.NoError(t, err)
	assert.Equal(t, PriceQuery{Asset: "XLM"}, remote.args[0])

	remote, err = run(t, GetPrice, map[string]any{"assets": "A, B ,C"})
	require.NoError(t, err)
	assert.Equal(t, PriceQuery{Assets: []string{"A", "B", "C"}}, remote.args[0])
	assert.Equal(t, []string{"A", "B", "C"}, remote.args[0].(PriceQuery).List())

	_, err = run(t, GetPrice, map[string]any{"assets": " , "})
	assert.Error(t, err)
}

func TestInvoke_AssetList(t *testing.T) {
	remote, err := run(t, GetAssetList, map[string]any{"assetListName": ""})
	require.NoError(t, err)
	assert.Equal(t, AssetListAll, remote.args[0])

	remote, err = run(t, GetAssetList, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, AssetListAll, remote.args[0])

	remote, err = run(t, GetAssetList, map[string]any{"assetListName": "LOBSTR"})
	require.NoError(t, err)
	assert.Equal(t, AssetListLobstr, remote.args[0])

	_, err = run(t, GetAssetList, map[string]any{"assetListName": "UNKNOWN"})
	assert.Error(t, err)
}

func TestInvoke_RemoveLiquidityMinimums(t *testing.T) {
	base := map[string]any{"assetA": "A", "assetB": "B", "liquidity": "1000", "to": "GADDR"}

	remote, err := run(t, RemoveLiquidity, base)
	require.NoError(t, err)
	req := remote.args[0].(RemoveLiquidityRequest)
	assert.Zero(t, req.AmountAMin.Sign())
	assert.Zero(t, req.AmountBMin.Sign())
	assert.Equal(t, big.NewInt(1000), req.Liquidity)

	base["amountAMin"] = "10"
	base["amountBMin"] = "-1"
	_, err = run(t, RemoveLiquidity, base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amountBMin must not be negative")
}

func TestInvoke_Errors(t *testing.T) {
	tests := []struct {
		name     string
		id       ID
		raw      map[string]any
		wantType ErrorType
		wantText string
	}{
		{
			name:     "malformed amount",
			id:       Quote,
			raw:      map[string]any{"assetIn": "A", "assetOut": "B", "amount": "abc", "protocols": "soroswap"},
			wantType: ErrorTypeCoercion,
			wantText: `"amount"`,
		},
		{
			name:     "missing required",
			id:       AddLiquidity,
			raw:      map[string]any{"assetA": "A", "assetB": "B", "amountA": "1", "amountB": "2"},
			wantType: ErrorTypeValidation,
			wantText: "to is a required parameter",
		},
		{
			name:     "empty required string",
			id:       GetUserPositions,
			raw:      map[string]any{"address": ""},
			wantType: ErrorTypeValidation,
			wantText: "address is a required field",
		},
		{
			name:     "bad contract",
			id:       GetContractAddress,
			raw:      map[string]any{"contractName": "vault"},
			wantType: ErrorTypeCoercion,
			wantText: "contractName",
		},
		{
			name:     "bad launchtube",
			id:       Send,
			raw:      map[string]any{"xdr": "AAAA", "launchtube": "maybe"},
			wantType: ErrorTypeCoercion,
			wantText: "launchtube",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.id, tt.raw)
			require.Error(t, err)
			assert.Equal(t, tt.wantType, TypeOf(err))
			assert.Contains(t, err.Error(), tt.wantText)
		})
	}
}

func TestInvoke_BuildSendContract(t *testing.T) {
	remote, err := run(t, Build, map[string]any{"quote": `{"trade":{"amountIn":"1"}}`, "from": "GFROM"})
	require.NoError(t, err)
	req := remote.args[0].(BuildRequest)
	assert.Equal(t, "GFROM", req.From)
	assert.Equal(t, map[string]any{"trade": map[string]any{"amountIn": "1"}}, req.Quote)

	remote, err = run(t, Send, map[string]any{"xdr": "AAAA", "launchtube": true})
	require.NoError(t, err)
	assert.Equal(t, SendRequest{XDR: "AAAA", Launchtube: true}, remote.args[0])

	remote, err = run(t, GetContractAddress, map[string]any{"contractName": "router"})
	require.NoError(t, err)
	assert.Equal(t, ContractRouter, remote.args[0])

	remote, err = run(t, GetProtocols, nil)
	require.NoError(t, err)
	assert.Equal(t, "Protocols", remote.method)
}
