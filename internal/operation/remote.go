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
)

// Remote is the trading API surface. There is one method per operation and
// each returns the decoded JSON payload of the response.
type Remote interface {
	Protocols(ctx context.Context, network Network) (any, error)
	Quote(ctx context.Context, network Network, req QuoteRequest) (any, error)
	Build(ctx context.Context, network Network, req BuildRequest) (any, error)
	Send(ctx context.Context, network Network, req SendRequest) (any, error)
	Pools(ctx context.Context, network Network, protocols []string) (any, error)
	PoolByTokens(ctx context.Context, network Network, assetA, assetB string, protocols []string) (any, error)
	AddLiquidity(ctx context.Context, network Network, req AddLiquidityRequest) (any, error)
	RemoveLiquidity(ctx context.Context, network Network, req RemoveLiquidityRequest) (any, error)
	UserPositions(ctx context.Context, network Network, address string) (any, error)
	AssetList(ctx context.Context, name AssetListName) (any, error)
	Price(ctx context.Context, network Network, query PriceQuery) (any, error)
	ContractAddress(ctx context.Context, network Network, name ContractName) (any, error)
}

// QuoteRequest asks for the best route between two assets.
type QuoteRequest struct {
	AssetIn   string
	AssetOut  string
	Amount    *big.Int
	TradeType TradeType

	// Protocols are transmitted exactly as selected.
	Protocols []string
}

// BuildRequest turns a quote into an unsigned transaction.
type BuildRequest struct {
	Quote any
	From  string
	To    string
}

// SendRequest submits a signed transaction envelope.
type SendRequest struct {
	XDR        string
	Launchtube bool
}

// AddLiquidityRequest deposits both assets of a pool.
type AddLiquidityRequest struct {
	AssetA  string
	AssetB  string
	AmountA *big.Int
	AmountB *big.Int
	To      string
}

// RemoveLiquidityRequest withdraws liquidity shares. AmountAMin and
// AmountBMin are the minimum amounts accepted out.
type RemoveLiquidityRequest struct {
	AssetA     string
	AssetB     string
	Liquidity  *big.Int
	AmountAMin *big.Int
	AmountBMin *big.Int
	To         string
}

// PriceQuery names either one asset or several. Exactly one field is set.
type PriceQuery struct {
	Asset  string
	Assets []string
}

// List returns the queried assets regardless of form.
func (q PriceQuery) List() []string {
	if q.Asset != "" {
		return []string{q.Asset}
	}
	return q.Assets
}
