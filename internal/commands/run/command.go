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

// Package run implements 'swapflow run'.
package run

import (
	"github.com/spf13/cobra"
)

type options struct {
	itemsPath         string
	network           string
	continueOnFailure bool
	concurrency       int
	selectExpr        string
	metricsFile       string
}

// NewCommand creates the run command
func NewCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "run --items FILE",
		Short: "Dispatch a batch of items against the trading API",
		Long: `Run reads a list of items and performs one remote operation per item.

Each item is an object naming its operation and parameters:

  - operation: quote
    assetIn: CAS3J7GYLGXMF6TDJBBYYSE3HQ6BBSMLNUQ34T6TZMYMW2EVH34XOWMA
    assetOut: CCW67TSZV3SSS2HXMBQ5JFGCKJNXKZM7UQUWUZPUTHXSTZLEO7SJMI75
    amount: "10000000"
    protocols: soroswap,aqua
  - operation: get-price
    network: testnet
    assets: XLM

Items are read from a YAML or JSON file, or from stdin with '--items -'.
Results are written to stdout as one JSON document, in input order.

Failure handling:
  (default)              stop at the first failing item, exit 1
  --continue-on-failure  record failures and keep going; exit 0
  --concurrency N        with --continue-on-failure, run up to N items at once

The API key is resolved once per run from api.api_key in the config file,
SOROSWAP_API_KEY, or the soroswap/api_key secret. A missing key exits 4.`,
		Example: `  swapflow run --items items.yaml
  swapflow run --items - --network testnet < items.json
  swapflow run --items items.yaml --continue-on-failure --concurrency 4
  swapflow run --items items.yaml --select '.amountOut'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.itemsPath, "items", "f", "", "Items file (YAML or JSON), '-' for stdin")
	cmd.Flags().StringVar(&opts.network, "network", "", "Default network for items that do not set one (mainnet, testnet)")
	cmd.Flags().BoolVar(&opts.continueOnFailure, "continue-on-failure", false, "Record failed items and continue")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Maximum items in flight with --continue-on-failure")
	cmd.Flags().StringVar(&opts.selectExpr, "select", "", "jq expression applied to each successful output")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	_ = cmd.MarkFlagRequired("items")

	return cmd
}
