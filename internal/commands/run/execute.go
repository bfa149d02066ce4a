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

package run

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tombee/swapflow/internal/commands/shared"
	"github.com/tombee/swapflow/internal/config"
	"github.com/tombee/swapflow/internal/dispatch"
	"github.com/tombee/swapflow/internal/jq"
	"github.com/tombee/swapflow/internal/log"
	"github.com/tombee/swapflow/internal/operation"
	"github.com/tombee/swapflow/internal/operation/transport"
	"github.com/tombee/swapflow/internal/secrets"
	"github.com/tombee/swapflow/internal/soroswap"
	"github.com/tombee/swapflow/pkg/httpclient"
)

// newResolver is replaced in tests.
var newResolver = secrets.DefaultResolver

func execute(cmd *cobra.Command, opts options) error {
	cfg, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return shared.NewInvalidInputError("failed to load configuration", err)
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}

	logger := shared.NewLogger(cfg, cmd.ErrOrStderr())

	items, err := readItems(cmd.InOrStdin(), opts.itemsPath)
	if err != nil {
		return shared.NewInvalidInputError("cannot read items", err)
	}

	var selectProg *jq.Program
	if opts.selectExpr != "" {
		selectProg, err = jq.Compile(opts.selectExpr, 0, 0)
		if err != nil {
			return shared.NewInvalidInputError("invalid --select expression", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cred, err := secrets.ResolveCredential(ctx, newResolver(), cfg.API.APIKey, cfg.API.BaseURL)
	if err != nil {
		return shared.NewCredentialError("cannot resolve API credential", err)
	}
	logger.Debug("credential resolved",
		slog.String("base_url", cred.BaseURL),
		slog.String("api_key", log.SanitizeAPIKey(cred.APIKey)),
	)

	remote, err := newRemote(cfg, cred, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	dispatcher := dispatch.New(operation.NewRegistry(), remote,
		dispatch.WithLogger(logger),
		dispatch.WithMetrics(dispatch.NewMetrics(reg)),
	)

	runID := httpclient.NewCorrelationID()
	ctx = httpclient.WithCorrelationID(ctx, runID)

	results, runErr := dispatcher.Run(ctx, items, dispatch.Options{
		ContinueOnFailure: cfg.Dispatch.ContinueOnFailure,
		DefaultNetwork:    cfg.Network(),
		MaxConcurrency:    cfg.Dispatch.MaxConcurrency,
		Select:            selectProg,
	})

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
			logger.Warn("failed to write metrics file", slog.String("path", opts.metricsFile), log.Error(err))
		}
	}

	if err := writeResponse(cmd.OutOrStdout(), runID, results, runErr); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	if runErr != nil {
		return shared.NewRunFailedError("run aborted", runErr)
	}
	return nil
}

// applyFlags layers command-line flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts options) error {
	flags := cmd.Flags()
	if flags.Changed("network") {
		network, err := operation.ParseNetwork(opts.network)
		if err != nil {
			return shared.NewInvalidInputError("invalid --network", err)
		}
		cfg.Dispatch.Network = string(network)
	}
	if flags.Changed("continue-on-failure") {
		cfg.Dispatch.ContinueOnFailure = opts.continueOnFailure
	}
	if flags.Changed("concurrency") {
		if opts.concurrency < 0 {
			return shared.NewInvalidInputError(fmt.Sprintf("--concurrency must not be negative, got %d", opts.concurrency), nil)
		}
		cfg.Dispatch.MaxConcurrency = opts.concurrency
	}
	return nil
}

func readItems(stdin io.Reader, path string) (dispatch.Items, error) {
	if path == "-" {
		return dispatch.LoadItems(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dispatch.LoadItems(f)
}

// newRemote builds the client stack: http.Client, bearer transport with
// rate limiting, then the API client.
func newRemote(cfg *config.Config, cred secrets.Credential, logger *slog.Logger) (*soroswap.Client, error) {
	hc := httpclient.DefaultConfig()
	hc.Timeout = cfg.API.Timeout
	hc.RetryAttempts = cfg.API.RetryAttempts
	if cfg.API.UserAgent != "" {
		hc.UserAgent = cfg.API.UserAgent
	}
	hc.Logger = logger

	client, err := httpclient.New(hc)
	if err != nil {
		return nil, shared.NewInvalidInputError("invalid HTTP client settings", err)
	}

	tr, err := transport.NewHTTPTransport(transport.HTTPConfig{
		Client: client,
		Token:  cred.APIKey,
	})
	if err != nil {
		return nil, err
	}
	if limiter := transport.NewRateLimiter(cfg.API.RateLimit, cfg.API.RateBurst); limiter != nil {
		tr.SetRateLimiter(limiter)
	}

	return soroswap.New(soroswap.Config{
		BaseURL:   cred.BaseURL,
		Transport: tr,
		Logger:    logger,
	})
}

// Response is the JSON document written by 'swapflow run'.
type Response struct {
	shared.JSONResponse
	RunID   string            `json:"run_id"`
	Summary dispatch.Summary  `json:"summary"`
	Results []dispatch.Result `json:"results"`
	Error   *shared.JSONError `json:"error,omitempty"`
}

func writeResponse(w io.Writer, runID string, results []dispatch.Result, runErr error) error {
	summary := dispatch.Summarize(results)
	resp := Response{
		JSONResponse: shared.NewJSONResponse("run", runErr == nil && summary.Failed == 0),
		RunID:        runID,
		Summary:      summary,
		Results:      results,
	}
	if resp.Results == nil {
		resp.Results = []dispatch.Result{}
	}
	if runErr != nil {
		resp.Error = &shared.JSONError{Code: "run_aborted", Message: runErr.Error()}
		if t := operation.TypeOf(runErr); t != "" {
			resp.Error.Code = string(t)
		}
	}
	return shared.WriteJSON(w, resp)
}
