// Package metrics defines and registers all custom Prometheus metrics for the
// josetsu customer service. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "josetsu"

// ── Lookup metrics ────────────────────────────────────────────────────────────

// LookupsTotal counts calls to the external lookup collaborators.
// Labels:
//   - kind: "geocode", "postal", or "route"
//   - result: "ok" (result returned), "empty" (no result), or "error"
var LookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookups_total",
		Help:      "Total number of external lookup calls, by kind and result.",
	},
	[]string{"kind", "result"},
)

// LookupDuration measures how long one external lookup call takes.
// Label:
//   - kind: "geocode", "postal", or "route"
var LookupDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lookup_duration_seconds",
		Help:      "Duration of external lookup calls.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"kind"},
)

// LookupCacheTotal counts lookup-cache decisions.
// Labels:
//   - kind: "geocode" or "postal"
//   - result: "hit" or "miss"
var LookupCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookup_cache_total",
		Help:      "Total number of lookup cache checks, labelled by result (hit/miss).",
	},
	[]string{"kind", "result"},
)

// ── Customer metrics ──────────────────────────────────────────────────────────

// CustomersCreatedTotal counts newly created customer records.
// Label:
//   - tier: "basic", "premium", or "custom"
var CustomersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "customers_created_total",
		Help:      "Total number of customer records created, by contract tier.",
	},
	[]string{"tier"},
)

// CustomersDeletedTotal counts permanently deleted customer records.
var CustomersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "customers_deleted_total",
		Help:      "Total number of customer records deleted.",
	},
)

// ── Map metrics ───────────────────────────────────────────────────────────────

// RoutePlansTotal counts route planning requests sent to the routing
// collaborator.
// Label:
//   - result: "ok" or "error"
var RoutePlansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "route_plans_total",
		Help:      "Total number of route planning requests, by result.",
	},
	[]string{"result"},
)

// ── Refresh queue metrics ─────────────────────────────────────────────────────

// RefreshQueueDepth tracks the number of coordinate refresh jobs waiting in
// each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RefreshQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "refresh_queue_depth",
		Help:      "Current number of geocode refresh jobs pending in each worker channel.",
	},
	[]string{"worker_id"},
)
