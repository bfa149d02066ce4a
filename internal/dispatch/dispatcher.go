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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/swapflow/internal/jq"
	"github.com/tombee/swapflow/internal/log"
	"github.com/tombee/swapflow/internal/operation"
	"github.com/tombee/swapflow/pkg/httpclient"
)

const tracerName = "github.com/tombee/swapflow/internal/dispatch"

// Options control a single run.
type Options struct {
	// ContinueOnFailure records failed items and keeps going. When false the
	// first failure aborts the run.
	ContinueOnFailure bool

	// DefaultNetwork applies to items that do not set "network".
	// Default: mainnet
	DefaultNetwork operation.Network

	// MaxConcurrency bounds in-flight items when ContinueOnFailure is set.
	// Values below 2 dispatch sequentially.
	MaxConcurrency int

	// Select projects each successful output.
	Select *jq.Program
}

// Dispatcher executes items against a Remote. It holds no per-run state and
// is safe for concurrent use.
type Dispatcher struct {
	registry *operation.Registry
	remote   operation.Remote
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics enables prometheus collection.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithTracer sets the tracer used for per-item spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) {
		if tracer != nil {
			d.tracer = tracer
		}
	}
}

// New creates a Dispatcher.
func New(registry *operation.Registry, remote operation.Remote, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		remote:   remote,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = log.WithComponent(d.logger, "dispatch")
	return d
}

// Run dispatches every item of items and returns one Result per item in
// input order. In fail-fast mode it returns the results gathered so far,
// including the failing item, together with an *ItemError.
func (d *Dispatcher) Run(ctx context.Context, items ParameterReader, opts Options) ([]Result, error) {
	if opts.DefaultNetwork == "" {
		opts.DefaultNetwork = operation.Mainnet
	}

	runID := httpclient.CorrelationID(ctx)
	if runID == "" {
		runID = httpclient.NewCorrelationID()
		ctx = httpclient.WithCorrelationID(ctx, runID)
	}
	logger := log.WithRunContext(d.logger, runID)

	n := items.Len()
	logger.Info("dispatch started",
		slog.Int("items", n),
		slog.Bool("continue_on_failure", opts.ContinueOnFailure),
		slog.Int("max_concurrency", opts.MaxConcurrency),
		slog.String("default_network", string(opts.DefaultNetwork)),
	)
	start := time.Now()

	var (
		results []Result
		runErr  error
	)
	if opts.ContinueOnFailure && opts.MaxConcurrency > 1 {
		results = d.runConcurrent(ctx, logger, items, opts)
	} else {
		results, runErr = d.runSequential(ctx, logger, items, opts)
	}

	summary := Summarize(results)
	logger.Info("dispatch finished",
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Int64(log.DurationKey, time.Since(start).Milliseconds()),
	)
	return results, runErr
}

func (d *Dispatcher) runSequential(ctx context.Context, logger *slog.Logger, items ParameterReader, opts Options) ([]Result, error) {
	n := items.Len()
	results := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		var r Result
		if err := ctx.Err(); err != nil {
			r = d.notStarted(items, i, opts, err)
		} else {
			r = d.dispatchItem(ctx, logger, items, i, opts)
		}
		results = append(results, r)

		if !r.Success() && !opts.ContinueOnFailure {
			return results, &ItemError{Index: i, Operation: r.Operation, Err: r.Err}
		}
	}
	return results, nil
}

// runConcurrent bounds in-flight items with a semaphore and writes each
// result into its own slot so output order matches input order.
func (d *Dispatcher) runConcurrent(ctx context.Context, logger *slog.Logger, items ParameterReader, opts Options) []Result {
	n := items.Len()
	results := make([]Result, n)
	sem := make(chan struct{}, opts.MaxConcurrency)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			results[i] = d.notStarted(items, i, opts, ctx.Err())
			continue
		case sem <- struct{}{}:
		}

		if err := ctx.Err(); err != nil {
			<-sem
			results[i] = d.notStarted(items, i, opts, err)
			continue
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = d.dispatchItem(ctx, logger, items, idx, opts)
		}(i)
	}
	wg.Wait()
	return results
}

// notStarted records an item that was never dispatched because the run was
// cancelled first.
func (d *Dispatcher) notStarted(items ParameterReader, index int, opts Options, cause error) Result {
	opName, _ := readString(items, OperationKey, index)
	network := opts.DefaultNetwork
	if raw, ok := readString(items, NetworkKey, index); ok {
		if parsed, err := operation.ParseNetwork(raw); err == nil && parsed != "" {
			network = parsed
		}
	}
	err := fmt.Errorf("not started: %w", cause)
	d.metrics.observe(opName, outcomeCancelled, 0)
	return Result{
		Index:     index,
		Operation: opName,
		Network:   network,
		Error:     newResultError(err),
		Err:       err,
	}
}

func (d *Dispatcher) dispatchItem(ctx context.Context, logger *slog.Logger, items ParameterReader, index int, opts Options) Result {
	start := time.Now()

	ctx, span := d.tracer.Start(ctx, "dispatch.item",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int("item.index", index)),
	)
	defer span.End()

	result := Result{Index: index, Network: opts.DefaultNetwork}
	out, err := d.invoke(ctx, items, index, opts, &result)

	span.SetAttributes(
		attribute.String("operation", result.Operation),
		attribute.String("network", string(result.Network)),
	)
	itemLogger := log.WithItemContext(logger, index, result.Operation, string(result.Network))
	elapsed := time.Since(start)

	if err != nil {
		result.Err = err
		result.Error = newResultError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.metrics.observe(result.Operation, outcomeOf(err), elapsed.Seconds())
		itemLogger.Warn("item failed",
			log.Error(err),
			slog.Int64(log.DurationKey, elapsed.Milliseconds()),
		)
		return result
	}

	result.Output = out
	span.SetStatus(codes.Ok, "")
	d.metrics.observe(result.Operation, outcomeSuccess, elapsed.Seconds())
	if result.SelectError != "" {
		span.SetAttributes(attribute.String("select.error", result.SelectError))
		itemLogger.Warn("select failed, keeping raw output", slog.String("select_error", result.SelectError))
	}
	itemLogger.Debug("item succeeded", slog.Int64(log.DurationKey, elapsed.Milliseconds()))
	return result
}

// invoke resolves the item's operation and network into result, then gathers
// parameters and performs the remote call.
func (d *Dispatcher) invoke(ctx context.Context, items ParameterReader, index int, opts Options, result *Result) (any, error) {
	raw, ok := items.Parameter(OperationKey, index)
	if !ok || raw == nil {
		return nil, operation.NewValidationError(OperationKey, "operation is a required parameter")
	}
	opName, isString := raw.(string)
	if !isString {
		return nil, operation.NewUnknownOperationError(fmt.Sprint(raw))
	}
	result.Operation = opName

	spec, err := d.registry.Lookup(opName)
	if err != nil {
		return nil, err
	}

	if rawNetwork, ok := items.Parameter(NetworkKey, index); ok && rawNetwork != nil {
		s, isString := rawNetwork.(string)
		if !isString {
			return nil, operation.NewValidationError(NetworkKey, fmt.Sprintf("network must be a string, got %T", rawNetwork))
		}
		network, err := operation.ParseNetwork(s)
		if err != nil {
			return nil, err
		}
		if network != "" {
			result.Network = network
		}
	}

	values, err := spec.Gather(func(name string) (any, bool) {
		return items.Parameter(name, index)
	})
	if err != nil {
		return nil, err
	}

	// A submission that already left must finish and report its outcome.
	callCtx := ctx
	if spec.Mutating {
		callCtx = context.WithoutCancel(ctx)
	}
	out, err := spec.Invoke(callCtx, d.remote, result.Network, values)
	if err != nil {
		return nil, err
	}

	if opts.Select != nil {
		// The remote call succeeded; a failed projection keeps the raw output.
		projected, err := opts.Select.Run(callCtx, out)
		if err != nil {
			result.SelectError = fmt.Sprintf("select %s: %v", opts.Select, err)
			return out, nil
		}
		out = projected
	}
	return out, nil
}

func readString(items ParameterReader, name string, index int) (string, bool) {
	raw, ok := items.Parameter(name, index)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

func outcomeOf(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return outcomeCancelled
	}
	var opErr *operation.Error
	if errors.As(err, &opErr) && opErr.IsRemote() {
		return outcomeRemote
	}
	if errors.As(err, &opErr) {
		return outcomeInvalid
	}
	return outcomeRemote
}
