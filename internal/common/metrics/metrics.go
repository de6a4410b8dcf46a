// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RouterDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_decisions_total",
			Help: "Total number of queries routed, by category",
		},
		[]string{"category"},
	)

	SupervisorDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supervisor_decisions_total",
			Help: "Total number of supervisor decisions, by workflow and decision",
		},
		[]string{"workflow", "decision"},
	)

	WorkerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_step_duration_seconds",
			Help:    "Duration of each workflow step in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"workflow", "step"},
	)

	FetchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_outcomes_total",
			Help: "Fetch step outcomes: results, empty, missing_credential, invalid_credential",
		},
		[]string{"workflow", "outcome"},
	)

	RunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runs_failed_total",
			Help: "Total number of failed runs, by error code",
		},
		[]string{"error_code"},
	)
)
