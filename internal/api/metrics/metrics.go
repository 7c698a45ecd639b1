// Package metrics defines and registers all custom Prometheus metrics for the
// billing API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry at
// package init via promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "billing"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// EntityWritesTotal counts authorized mutations per entity collection.
// Labels:
//   - entity: "user", "client", "product", "bill", "deposit"
//   - op: "create", "update", "delete"
var EntityWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_writes_total",
		Help:      "Total number of authorized create/update/delete operations.",
	},
	[]string{"entity", "op"},
)

// AuthorizationDeniedTotal counts operations rejected by the tier guard.
// Label:
//   - entity: the collection the caller tried to reach
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of operations rejected by the tier guard.",
	},
	[]string{"entity"},
)

// BalanceComputationsTotal counts completed client balance computations.
var BalanceComputationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_computations_total",
		Help:      "Total number of client balance computations served.",
	},
)

// BalanceComputationDuration measures how long a balance computation takes,
// including the two collection reads.
var BalanceComputationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "balance_computation_duration_seconds",
		Help:      "Duration of client balance computations end-to-end.",
		Buckets:   prometheus.DefBuckets,
	},
)
