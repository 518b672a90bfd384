package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch, run and notification counters, partitioned by source or portfolio.

var (
	FetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fdf",
		Subsystem: "fetch",
		Name:      "attempts_total",
		Help:      "Balance lookups attempted, including retries",
	}, []string{"source"})

	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fdf",
		Subsystem: "fetch",
		Name:      "failures_total",
		Help:      "Failed balance lookup attempts",
	}, []string{"source"})

	FetchExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fdf",
		Subsystem: "fetch",
		Name:      "exhausted_total",
		Help:      "Addresses recorded as 0 after every attempt failed",
	}, []string{"source"})

	PortfolioTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fdf",
		Subsystem: "portfolio",
		Name:      "total_value_usd",
		Help:      "Total value recorded by the last run",
	}, []string{"portfolio"})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fdf",
		Subsystem: "tracker",
		Name:      "run_duration_seconds",
		Help:      "Duration of one portfolio run",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"portfolio"})

	RunErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fdf",
		Subsystem: "tracker",
		Name:      "errors_total",
		Help:      "Portfolio runs that failed to record",
	}, []string{"portfolio"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fdf",
		Subsystem: "notify",
		Name:      "sent_total",
		Help:      "Notifications delivered",
	}, []string{"channel"})

	NotificationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fdf",
		Subsystem: "notify",
		Name:      "errors_total",
		Help:      "Notifications that failed and were dropped",
	}, []string{"channel"})

	SchedulerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fdf",
		Subsystem: "scheduler",
		Name:      "runs_total",
		Help:      "Scheduled job executions by outcome",
	}, []string{"outcome"})
)
