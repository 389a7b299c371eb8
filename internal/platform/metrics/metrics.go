// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics holds the Prometheus collectors exported on /metrics.

Collectors are registered once on the default registry through promauto.
Label values are bounded: routes use the chi pattern, never the raw path.
*/
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// # HTTP

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidtube_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidtube_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// # Social

var (
	// ToggleOperations counts toggle outcomes per relation kind ("added" or "removed").
	ToggleOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_toggle_operations_total",
			Help: "Total number of like and subscription toggles",
		},
		[]string{"kind", "outcome"},
	)
)

// # Authentication

var (
	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_auth_events_total",
			Help: "Authentication events by type and result",
		},
		[]string{"event", "result"},
	)
)

// # Object Storage

var (
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidtube_storage_operation_duration_seconds",
			Help:    "Duration of object storage calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation", "result"},
	)

	StorageCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidtube_storage_circuit_state",
			Help: "Object storage circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordHTTPRequest observes one finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordToggle counts one toggle outcome.
func RecordToggle(kind string, present bool) {
	outcome := "removed"
	if present {
		outcome = "added"
	}
	ToggleOperations.WithLabelValues(kind, outcome).Inc()
}

// RecordAuthEvent counts one authentication event.
func RecordAuthEvent(event string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	AuthEvents.WithLabelValues(event, result).Inc()
}

// RecordStorageOperation observes one object storage call.
func RecordStorageOperation(operation string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StorageOperationDuration.WithLabelValues(operation, result).Observe(duration.Seconds())
}
