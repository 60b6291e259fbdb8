// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applications_created_total",
			Help: "Total number of application records created",
		},
		[]string{"source"},
	)

	StatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_status_changes_total",
			Help: "Total number of status transitions applied",
		},
		[]string{"status"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_emails_sent_total",
			Help: "Total number of notification email send attempts",
		},
		[]string{"type", "outcome"},
	)

	EmailBudgetExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_budget_exhausted_total",
			Help: "Number of sends skipped because the daily email budget was spent",
		},
	)

	MilestoneSweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "milestone_sweeps_total",
			Help: "Number of seven-day milestone sweep passes",
		},
	)

	RecordsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_records_deleted_total",
			Help: "Total number of application records deleted",
		},
		[]string{"reason"},
	)

	SelfDestructAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "self_destruct_attempts_total",
			Help: "Self-destruct execution attempts by outcome",
		},
		[]string{"outcome"},
	)
)
