// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the repositories.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tennis_history_http_requests_total",
		Help: "Total number of HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tennis_history_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tennis_history_http_rate_limited_total",
		Help: "Requests rejected by the per-IP rate limiter",
	})

	// Query plans
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tennis_history_query_duration_seconds",
		Help:    "Time spent executing a query plan",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"query", "plan"})

	QueryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tennis_history_query_errors_total",
		Help: "Query plans that failed",
	}, []string{"query", "plan"})

	// Integrity
	AnomaliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tennis_history_anomalies_total",
		Help: "Data-integrity anomalies attached to results",
	}, []string{"kind"})
)

// ObserveQuery records the duration and outcome of one plan execution.
func ObserveQuery(name, plan string, start time.Time, err error) {
	QueryDuration.WithLabelValues(name, plan).Observe(time.Since(start).Seconds())
	if err != nil {
		QueryErrors.WithLabelValues(name, plan).Inc()
	}
}
