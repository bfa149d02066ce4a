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

import "math/big"

// Amounts travel as decimal strings.

type quoteBody struct {
	AssetIn   string   `json:"assetIn"`
	AssetOut  string   `json:"assetOut"`
	Amount    string   `json:"amount"`
	TradeType string   `json:"tradeType"`
	Protocols []string `json:"protocols"`
}

type buildBody struct {
	Quote any    `json:"quote"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

type sendBody struct {
	XDR        string `json:"xdr"`
	Launchtube bool   `json:"launchtube"`
}

type addLiquidityBody struct {
	AssetA  string `json:"assetA"`
	AssetB  string `json:"assetB"`
	AmountA string `json:"amountA"`
	AmountB string `json:"amountB"`
	To      string `json:"to"`
}

type removeLiquidityBody struct {
	AssetA     string `json:"assetA"`
	AssetB     string `json:"assetB"`
	Liquidity  string `json:"liquidity"`
	AmountAMin string `json:"amountAMin"`
	AmountBMin string `json:"amountBMin"`
	To         string `json:"to"`
}

func amount(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}
