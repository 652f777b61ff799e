// Package metrics defines and registers all custom Prometheus metrics for the
// finance tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry at package init via
// promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fintrack"

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountsCreatedTotal counts successfully registered accounts.
// Label:
//   - role: the role assigned at creation ("USER" or "ADMIN")
var AccountsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// AccountsDeletedTotal counts account delete operations.
var AccountsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_deleted_total",
		Help:      "Total number of account delete operations.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Transaction metrics ───────────────────────────────────────────────────────

// TransactionsRecordedTotal counts recorded transactions.
// Label:
//   - kind: "income" or "expense"
var TransactionsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_recorded_total",
		Help:      "Total number of transactions recorded, by kind.",
	},
	[]string{"kind"},
)
