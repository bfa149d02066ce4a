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
	"fmt"
	"strings"
)

// ID identifies one remote operation.
type ID string

// Operation identifiers. The set is closed.
const (
	GetProtocols       ID = "get-protocols"
	Quote              ID = "quote"
	Build              ID = "build"
	Send               ID = "send"
	GetPools           ID = "get-pools"
	GetPoolByTokens    ID = "get-pool-by-tokens"
	AddLiquidity       ID = "add-liquidity"
	RemoveLiquidity    ID = "remove-liquidity"
	GetUserPositions   ID = "get-user-positions"
	GetAssetList       ID = "get-asset-list"
	GetPrice           ID = "get-price"
	GetContractAddress ID = "get-contract-address"
)

// IDs lists every operation in registry order.
var IDs = []ID{
	GetProtocols,
	Quote,
	Build,
	Send,
	GetPools,
	GetPoolByTokens,
	AddLiquidity,
	RemoveLiquidity,
	GetUserPositions,
	GetAssetList,
	GetPrice,
	GetContractAddress,
}

// ParseID returns the ID for s or an unknown_operation error.
func ParseID(s string) (ID, error) {
	for _, id := range IDs {
		if string(id) == s {
			return id, nil
		}
	}
	return "", NewUnknownOperationError(s)
}

// Network selects the production or test deployment.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// ParseNetwork validates s. The empty string is returned as-is so callers
// can substitute the run default.
func ParseNetwork(s string) (Network, error) {
	switch n := Network(strings.ToLower(strings.TrimSpace(s))); n {
	case Mainnet, Testnet, "":
		return n, nil
	}
	return "", &Error{
		Type:        ErrorTypeValidation,
		Message:     fmt.Sprintf("unknown network %q", s),
		Param:       "network",
		SuggestText: "Use mainnet or testnet",
	}
}

// TradeType is the quote direction.
type TradeType string

const (
	ExactIn  TradeType = "EXACT_IN"
	ExactOut TradeType = "EXACT_OUT"
)

// Protocols accepted by quote and pool lookups.
var Protocols = []string{"soroswap", "phoenix", "aqua", "sdex"}

// AssetListName selects a curated asset list. Empty means all lists.
type AssetListName string

const (
	AssetListAll           AssetListName = ""
	AssetListSoroswap      AssetListName = "SOROSWAP"
	AssetListStellarExpert AssetListName = "STELLAR_EXPERT"
	AssetListLobstr        AssetListName = "LOBSTR"
	AssetListAqua          AssetListName = "AQUA"
)

// ContractName selects a deployed contract.
type ContractName string

const (
	ContractFactory    ContractName = "factory"
	ContractRouter     ContractName = "router"
	ContractAggregator ContractName = "aggregator"
)

func stringsOf[T ~string](values ...T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
