// Package metrics defines and registers the custom Prometheus metrics of the
// AccessHub API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accesshub"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login and registration attempts.
// Labels:
//   - flow: "login" or "register"
//   - result: "success", "invalid_credentials", "invalid_input", "duplicate" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and registration attempts, by flow and result.",
	},
	[]string{"flow", "result"},
)

// TokensIssuedTotal counts session tokens handed out, by the role they carry.
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued, by role.",
	},
	[]string{"role"},
)

// AuthGateRejectionsTotal counts requests rejected by the Auth Gate.
var AuthGateRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_gate_rejections_total",
		Help:      "Total number of requests rejected for missing or invalid credentials.",
	},
)

// AuthorizationDenialsTotal counts requests rejected by a role gate.
// Label:
//   - policy: "authorize", "self_or_admin" or "manager_or_admin"
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied by a role gate, by policy.",
	},
	[]string{"policy"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// UserMutationsTotal counts admin and self-service changes to user records.
// Label:
//   - op: "update" or "delete"
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_mutations_total",
		Help:      "Total number of user records updated or deleted.",
	},
	[]string{"op"},
)

// ResourceAccessTotal counts resource operations that completed.
// Label:
//   - op: "view", "download", "create" or "delete"
var ResourceAccessTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resource_access_total",
		Help:      "Total number of completed resource operations, by operation.",
	},
	[]string{"op"},
)
