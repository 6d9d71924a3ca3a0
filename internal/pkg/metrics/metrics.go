// Package metrics defines and registers all custom Prometheus metrics for the
// NagaClean client core. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package load and are exposed on the ops listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nagaclean"

// ── API client metrics ────────────────────────────────────────────────────────

// APIRequestsTotal counts outbound requests to the backend.
// Labels:
//   - endpoint: logical endpoint name (e.g. "pickups", "auth_login")
//   - status: HTTP status code, or "transport_error" when no response arrived
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of outbound API requests, by endpoint and result.",
	},
	[]string{"endpoint", "status"},
)

// APIRequestDuration measures outbound request latency end-to-end.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of outbound API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Refresh metrics ───────────────────────────────────────────────────────────

// RefreshCyclesTotal counts applied pending-view refreshes.
// Label:
//   - trigger: "initial", "timer", "manual", or "mutation"
var RefreshCyclesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_cycles_total",
		Help:      "Total number of pending-view snapshots applied, by trigger.",
	},
	[]string{"trigger"},
)

// RefreshDiscardedTotal counts fetches that completed after a newer snapshot
// had already been applied.
var RefreshDiscardedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_discarded_total",
		Help:      "Total number of stale pending-view snapshots discarded.",
	},
)

// PendingPickups tracks the size of the last applied pending snapshot.
var PendingPickups = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pending_pickups",
		Help:      "Number of pickup requests in the current pending view.",
	},
)

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// PickupsCreatedTotal counts successfully created pickup requests.
var PickupsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pickups_created_total",
		Help:      "Total number of pickup requests created, by waste type.",
	},
	[]string{"waste_type"},
)

// TriageActionsTotal counts successful accept/decline status changes.
var TriageActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "triage_actions_total",
		Help:      "Total number of successful triage status changes, by action.",
	},
	[]string{"action"},
)
