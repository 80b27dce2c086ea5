// Package metrics defines and registers all custom Prometheus metrics for the
// helpdesk console gateway. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at import time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console_gateway"

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route-guard evaluations by outcome.
// Label:
//   - decision: "allow", "redirect_login", "redirect_unauthorized",
//     "redirect_subscription_required", "redirect_subscription_expired"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard evaluations, by decision.",
	},
	[]string{"decision"},
)

// PermissionFallbacksTotal counts degraded-mode operations: the backend
// permission lookup failed and the guard fell back to token-embedded
// permissions.
var PermissionFallbacksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_fallbacks_total",
		Help:      "Total number of permission lookups served from token claims because the backend was unreachable.",
	},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsEstablishedTotal counts sessions written to the store.
// Label:
//   - source: "login" or "handoff"
var SessionsEstablishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_established_total",
		Help:      "Total number of sessions established, by source.",
	},
	[]string{"source"},
)

// SessionsPurgedTotal counts sessions removed because their token was
// expired, malformed, or revoked by the backend.
var SessionsPurgedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_purged_total",
		Help:      "Total number of sessions purged due to invalid or expired tokens.",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events dropped because the dispatcher
// queue was full. Audit capture is best-effort by contract.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped due to a full dispatcher queue.",
	},
)
