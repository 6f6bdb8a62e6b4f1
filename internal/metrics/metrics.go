// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route and status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundup_http_requests_total",
			Help: "Total HTTP requests handled, by route and status code",
		},
		[]string{"route", "status"},
	)

	// HTTPDuration observes request latency by route
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roundup_http_request_duration_seconds",
			Help:    "HTTP request latency, by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// TransactionsProcessed counts classified transactions by operation and outcome
	TransactionsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundup_transactions_processed_total",
			Help: "Transactions classified by the engine, by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// CalculationErrors counts request-level computation failures
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundup_calculation_errors_total",
			Help: "Request-level calculation failures, by operation and error type",
		},
		[]string{"operation", "error_type"},
	)
)
