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

const (
	categoryTrading   = "trading"
	categoryLiquidity = "liquidity"
	categoryMarket    = "market-data"
	categoryMeta      = "metadata"
)

func protocolParam(lower bool) Param {
	return Param{
		Name:        "protocols",
		Type:        TypeProtocolSet,
		Required:    true,
		Values:      Protocols,
		LowerCase:   lower,
		Description: "protocols to route through",
	}
}

func assetParam(name, desc string) Param {
	return Param{Name: name, Type: TypeString, Required: true, Description: desc}
}

func amountParam(name, desc string) Param {
	return Param{Name: name, Type: TypeBigInt, Required: true, Description: desc}
}

type quoteParams struct {
	AssetIn   string   `param:"assetIn" validate:"required"`
	AssetOut  string   `param:"assetOut" validate:"required"`
	Amount    *big.Int `param:"amount" validate:"required,bigint_gte0"`
	TradeType string   `param:"tradeType" validate:"required,oneof=EXACT_IN EXACT_OUT"`
	Protocols []string `param:"protocols" validate:"min=1"`
}

type buildParams struct {
	Quote any    `param:"quote" validate:"required"`
	From  string `param:"from"`
	To    string `param:"to"`
}

type sendParams struct {
	XDR        string `param:"xdr" validate:"required"`
	Launchtube bool   `param:"launchtube"`
}

type poolsParams struct {
	Protocols []string `param:"protocols" validate:"min=1"`
}

type poolByTokensParams struct {
	AssetA    string   `param:"assetA" validate:"required"`
	AssetB    string   `param:"assetB" validate:"required"`
	Protocols []string `param:"protocols" validate:"min=1"`
}

type addLiquidityParams struct {
	AssetA  string   `param:"assetA" validate:"required"`
	AssetB  string   `param:"assetB" validate:"required"`
	AmountA *big.Int `param:"amountA" validate:"required,bigint_gte0"`
	AmountB *big.Int `param:"amountB" validate:"required,bigint_gte0"`
	To      string   `param:"to" validate:"required"`
}

type removeLiquidityParams struct {
	AssetA     string   `param:"assetA" validate:"required"`
	AssetB     string   `param:"assetB" validate:"required"`
	Liquidity  *big.Int `param:"liquidity" validate:"required,bigint_gte0"`
	AmountAMin *big.Int `param:"amountAMin" validate:"required,bigint_gte0"`
	AmountBMin *big.Int `param:"amountBMin" validate:"required,bigint_gte0"`
	To         string   `param:"to" validate:"required"`
}

type userPositionsParams struct {
	Address string `param:"address" validate:"required"`
}

type assetListParams struct {
	AssetListName string `param:"assetListName" validate:"omitempty,oneof=SOROSWAP STELLAR_EXPERT LOBSTR AQUA"`
}

type priceParams struct {
	Assets []string `param:"assets" validate:"min=1"`
}

type contractParams struct {
	ContractName string `param:"contractName" validate:"required,oneof=factory router aggregator"`
}

func builtinSpecs() []*Spec {
	return []*Spec{
		{
			ID:          GetProtocols,
			Description: "List the protocols available on the network",
			Category:    categoryMeta,
			Invoke: func(ctx context.Context, remote Remote, network Network, _ Values) (any, error) {
				return remote.Protocols(ctx, network)
			},
		},
		{
			ID:          Quote,
			Description: "Quote the best route for a swap",
			Category:    categoryTrading,
			Params: []Param{
				assetParam("assetIn", "asset sold"),
				assetParam("assetOut", "asset bought"),
				amountParam("amount", "amount in the asset's smallest unit"),
				{
					Name:        "tradeType",
					Type:        TypeEnum,
					Required:    true,
					Values:      stringsOf(ExactIn, ExactOut),
					Default:     string(ExactIn),
					Description: "whether amount is the input or the output",
				},
				protocolParam(false),
			},
			Invoke: func(ctx context.Context, remote Remote, network Network, values Values) (any, error) {
				var p quoteParams
				if err := Decode(values, &p); err != nil {
					return nil, err
				}
				return remote.Quote(ctx, network, QuoteRequest{
					AssetIn:   p.AssetIn,
					AssetOut:  p.AssetOut,
					Amount:    p.Amount,
					TradeType: TradeType(p.TradeType),
					Protocols: p.Protocols,
				})
			},
		},
		{
			ID:          Build,
			Description: "Build an unsigned transaction from a quote",
			Category:    categoryTrading,
			Mutating:    true,
			Params: []Param{
				{Name: "quote", Type: TypeJSON, Required: true, Description: "quote payload returned by the quote operation"},
				{Name: "from", Type: TypeString, Description: "source account"},
				{Name: "to", Type: TypeString, Description: "recipient account"},
			},
			Invoke: func(ctx context.Context, remote Remote, network Network, values Values) (any, error) {
				var p buildParams
				if err := Decode(values, &p); err != nil {
					return nil, err
				}
				return remote.Build(ctx, network, BuildRequest{Quote: p.Quote, From: p.From, To: p.To})
			},
		},
		{
			ID:          Send,
			Description: "Submit a signed transaction",
			Category:    categoryTrading,
			Mutating:    true,
			Params: []Param{
				{Name: "xdr", Type: TypeString, Required: true, Description: "signed transaction envelope"},
				{Name: "launchtube", Type: TypeBoolean, Default: false, Description: "submit through Launchtube"},
			},
			Invoke: func(ctx context.Context, remote Remote, network Network, values Values) (any, error) {
				var p sendParams
				if err := Decode(values, &p); err != nil {
					return nil, err
				}
				return remote.Send(ctx, network, SendRequest{XDR: p.XDR, Launchtube: p.Launchtube})
			},
		},
		{
			ID:          GetPools,
			Description: "List liquidity pools",
			Category:    categoryMarket,
			Params:      []Param{protocolParam(true)},
			Invoke: func(ctx context.Context, remote Remote, network Network, values Values) (any, error) {
				var p poolsParams
				if err := Decode(values, &p); err != nil {
					return nil, err
				}
				return remote.Pools(ctx, network, p.Protocols)
			},
		},
		{
			ID:          GetPoolByTokens,
			Description: "Fetch the pool for a token pair",
			Category:    categoryMarket,
			Params: []Param{
				assetParam("assetA", "first asset"),
				assetParam("assetB", "second asset"),
				protocolParam(true),
			},
			Invoke: func(ctx context.Context, remote Remote, network Network, values Values) (any, error) {
				var p poolByTokensParams
				if err := Decode(values, &p); err != nil {
					return nil, err
				}
				return remote.PoolByTokens(ctx, network, p.AssetA, p.AssetB, p.Protocols)
			},
		},
		{
			ID:          AddLiquidity,
			Description: "Build an add-liquidity transaction",
			Category:    categoryLiquidity,
			Mutating:    true,
			Params: []Param{
				assetParam("assetA", "first asset"),
				assetParam("assetB", "second asset"),
				amountParam("amountA", "amount of the first asset"),
				amountParam("amountB", "amount of the second asset"),
				assetParam("to", "recipient of the liquidity shares"),
			},
			Invoke: func(ctx context.Context, remote Remote, network Network, values Values) (any, error) {
				var p addLiquidityParams
				if err := Decode(values, &p); err != nil {
					return nil, err
				}
				return remote.AddLiquidity(ctx, network, AddLiquidityRequest{
					AssetA:  p.AssetA,
					AssetB:  p.AssetB,
					AmountA: p.AmountA,
					AmountB: p.AmountB,
					To:      p.To,
				})
			},
		},
		{
			ID:          RemoveLiquidity,
			Description: "Build a remove-liquidity transaction",
			Category:    categoryLiquidity,
			Mutating:    true,
			Params: []Param{
				assetParam("assetA", "first asset"),
				assetParam("assetB", "second asset"),
				amountParam("liquidity", "liquidity shares to burn"),
				assetParam("to", "recipient of the withdrawn assets"),
				{Name: "amountAMin", Type: TypeBigInt, Default: "0", Description: "minimum amount of the first asset out"},
				{Name: "amountBMin", Type: TypeBigInt, Default: "0", Description: "minimum amount of the second asset out"},
			},
			Invoke: func(ctx context.Context, remote Remote, network Network, values Values) (any, error) {
				var p removeLiquidityParams
				if err := Decode(values, &p); err != nil {
					return nil, err
				}
				return remote.RemoveLiquidity(ctx, network, RemoveLiquidityRequest{
					AssetA:     p.AssetA,
					AssetB:     p.AssetB,
					Liquidity:  p.Liquidity,
					AmountAMin: p.AmountAMin,
					AmountBMin: p.AmountBMin,
					To:         p.To,
				})
			},
		},
		{
			ID:          GetUserPositions,
			Description: "Fetch the liquidity positions of an account",
			Category:    categoryLiquidity,
			Params:      []Param{assetParam("address", "account address")},
			Invoke: func(ctx context.Context, remote Remote, network Network, values Values) (any, error) {
				var p userPositionsParams
				if err := Decode(values, &p); err != nil {
					return nil, err
				}
				return remote.UserPositions(ctx, network, p.Address)
			},
		},
		{
			ID:          GetAssetList,
			Description: "Fetch curated asset list metadata",
			Category:    categoryMeta,
			Params: []Param{
				{
					Name:        "assetListName",
					Type:        TypeEnum,
					Values:      stringsOf(AssetListSoroswap, AssetListStellarExpert, AssetListLobstr, AssetListAqua),
					AllowEmpty:  true,
					Description: "list to fetch; empty fetches all lists",
				},
			},
			Invoke: func(ctx context.Context, remote Remote, _ Network, values Values) (any, error) {
				var p assetListParams
				if err := Decode(values, &p); err != nil {
					return nil, err
				}
				return remote.AssetList(ctx, AssetListName(p.AssetListName))
			},
		},
		{
			ID:          GetPrice,
			Description: "Fetch asset prices",
			Category:    categoryMarket,
			Params: []Param{
				{Name: "assets", Type: TypeCommaList, Required: true, Description: "comma-separated asset identifiers"},
			},
			Invoke: func(ctx context.Context, remote Remote, network Network, values Values) (any, error) {
				var p priceParams
				if err := Decode(values, &p); err != nil {
					return nil, err
				}
				query := PriceQuery{Assets: p.Assets}
				if len(p.Assets) == 1 {
					query = PriceQuery{Asset: p.Assets[0]}
				}
				return remote.Price(ctx, network, query)
			},
		},
		{
			ID:          GetContractAddress,
			Description: "Fetch a deployed contract address",
			Category:    categoryMeta,
			Params: []Param{
				{
					Name:        "contractName",
					Type:        TypeEnum,
					Required:    true,
					Values:      stringsOf(ContractFactory, ContractRouter, ContractAggregator),
					Description: "contract to resolve",
				},
			},
			Invoke: func(ctx context.Context, remote Remote, network Network, values Values) (any, error) {
				var p contractParams
				if err := Decode(values, &p); err != nil {
					return nil, err
				}
				return remote.ContractAddress(ctx, network, ContractName(p.ContractName))
			},
		},
	}
}
