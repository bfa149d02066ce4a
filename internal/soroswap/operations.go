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

package soroswap

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/tombee/swapflow/internal/operation"
)

// Protocols lists the protocols available on network.
func (c *Client) Protocols(ctx context.Context, network operation.Network) (any, error) {
	return c.call(ctx, http.MethodGet, c.buildURL(networkQuery(network), "protocols"), nil)
}

// Quote requests the best route for a swap.
func (c *Client) Quote(ctx context.Context, network operation.Network, req operation.QuoteRequest) (any, error) {
	body := quoteBody{
		AssetIn:   req.AssetIn,
		AssetOut:  req.AssetOut,
		Amount:    amount(req.Amount),
		TradeType: string(req.TradeType),
		Protocols: req.Protocols,
	}
	return c.call(ctx, http.MethodPost, c.buildURL(networkQuery(network), "quote"), body)
}

// Build turns a quote into an unsigned transaction.
func (c *Client) Build(ctx context.Context, network operation.Network, req operation.BuildRequest) (any, error) {
	body := buildBody{Quote: req.Quote, From: req.From, To: req.To}
	return c.call(ctx, http.MethodPost, c.buildURL(networkQuery(network), "quote", "build"), body)
}

// Send submits a signed transaction. It is never retried.
func (c *Client) Send(ctx context.Context, network operation.Network, req operation.SendRequest) (any, error) {
	body := sendBody{XDR: req.XDR, Launchtube: req.Launchtube}
	return c.call(ctx, http.MethodPost, c.buildURL(networkQuery(network), "send"), body)
}

// Pools lists pools for the given protocols.
func (c *Client) Pools(ctx context.Context, network operation.Network, protocols []string) (any, error) {
	q := networkQuery(network)
	q.Set("protocol", strings.Join(protocols, ","))
	return c.call(ctx, http.MethodGet, c.buildURL(q, "pools"), nil)
}

// PoolByTokens fetches the pool for a token pair.
func (c *Client) PoolByTokens(ctx context.Context, network operation.Network, assetA, assetB string, protocols []string) (any, error) {
	q := networkQuery(network)
	q.Set("protocol", strings.Join(protocols, ","))
	return c.call(ctx, http.MethodGet, c.buildURL(q, "pools", assetA, assetB), nil)
}

// AddLiquidity builds an add-liquidity transaction.
func (c *Client) AddLiquidity(ctx context.Context, network operation.Network, req operation.AddLiquidityRequest) (any, error) {
	body := addLiquidityBody{
		AssetA:  req.AssetA,
		AssetB:  req.AssetB,
		AmountA: amount(req.AmountA),
		AmountB: amount(req.AmountB),
		To:      req.To,
	}
	return c.call(ctx, http.MethodPost, c.buildURL(networkQuery(network), "liquidity", "add"), body)
}

// RemoveLiquidity builds a remove-liquidity transaction.
func (c *Client) RemoveLiquidity(ctx context.Context, network operation.Network, req operation.RemoveLiquidityRequest) (any, error) {
	body := removeLiquidityBody{
		AssetA:     req.AssetA,
		AssetB:     req.AssetB,
		Liquidity:  amount(req.Liquidity),
		AmountAMin: amount(req.AmountAMin),
		AmountBMin: amount(req.AmountBMin),
		To:         req.To,
	}
	return c.call(ctx, http.MethodPost, c.buildURL(networkQuery(network), "liquidity", "remove"), body)
}

// UserPositions fetches the liquidity positions of address.
func (c *Client) UserPositions(ctx context.Context, network operation.Network, address string) (any, error) {
	return c.call(ctx, http.MethodGet, c.buildURL(networkQuery(network), "liquidity", "positions", address), nil)
}

// AssetList fetches one curated list, or all lists when name is empty.
func (c *Client) AssetList(ctx context.Context, name operation.AssetListName) (any, error) {
	q := url.Values{}
	if name != operation.AssetListAll {
		q.Set("name", string(name))
	}
	return c.call(ctx, http.MethodGet, c.buildURL(q, "asset-list"), nil)
}

// Price fetches prices for one or several assets.
func (c *Client) Price(ctx context.Context, network operation.Network, query operation.PriceQuery) (any, error) {
	q := networkQuery(network)
	for _, asset := range query.List() {
		q.Add("asset", asset)
	}
	return c.call(ctx, http.MethodGet, c.buildURL(q, "price"), nil)
}

// ContractAddress fetches the address of a deployed contract.
func (c *Client) ContractAddress(ctx context.Context, network operation.Network, name operation.ContractName) (any, error) {
	return c.call(ctx, http.MethodGet, c.buildURL(nil, "api", string(network), string(name)), nil)
}
