// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

// Package metrics provides Prometheus instrumentation for the API surface
// and the row-store client. Collectors are registered via promauto on the
// default registry and exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts API requests by method, route pattern, and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// APIRequestDuration observes API request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// APIActiveRequests tracks in-flight API requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// StoreQueryDuration observes row-store query latency per relation.
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of row-store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"relation"},
	)

	// StoreQueryErrors counts row-store query failures per relation.
	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of row-store query errors",
		},
		[]string{"relation", "error_type"},
	)

	// StoreBreakerState reports the store circuit breaker state
	// (0 closed, 1 half-open, 2 open).
	StoreBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_breaker_state",
			Help: "Row-store circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStoreQuery records one completed row-store query.
func RecordStoreQuery(relation string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(relation).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(relation, "query").Inc()
	}
}
