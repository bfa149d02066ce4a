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
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tombee/swapflow/internal/operation"
)

// Outcome labels.
const (
	outcomeSuccess   = "success"
	outcomeInvalid   = "invalid"
	outcomeRemote    = "remote_error"
	outcomeCancelled = "cancelled"
)

// Metrics holds the dispatcher's prometheus collectors.
type Metrics struct {
	// items counts dispatched items by operation and outcome
	items *prometheus.CounterVec

	// duration observes per-item latency by operation
	duration *prometheus.HistogramVec
}

// NewMetrics registers the dispatcher collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		items: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swapflow_dispatch_items_total",
				Help: "Total dispatched items by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swapflow_dispatch_item_duration_seconds",
				Help:    "Per-item dispatch latency by operation",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
	}
}

// observe records one item. Operation names outside the registry share the
// "unknown" label.
func (m *Metrics) observe(op, outcome string, seconds float64) {
	if m == nil {
		return
	}
	if !slices.Contains(operation.IDs, operation.ID(op)) {
		op = "unknown"
	}
	m.items.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(seconds)
}
