// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

// Package metrics exposes Prometheus instrumentation for ingestion,
// reporting, the HTTP surface, and the Instagram client.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	EventsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rastroo_events_ingested_total",
			Help: "Total number of events appended to the event log",
		},
		[]string{"kind"},
	)

	EventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rastroo_events_dropped_total",
			Help: "Total number of events silently dropped before append",
		},
		[]string{"reason"},
	)

	EventsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rastroo_events_rejected_total",
			Help: "Total number of events rejected with a client error",
		},
		[]string{"reason"},
	)

	EventLogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rastroo_event_log_size",
			Help: "Current number of events in the event log",
		},
	)

	// Reporting metrics
	ReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rastroo_report_duration_seconds",
			Help:    "Duration of report aggregation scans in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReportEventsScanned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rastroo_report_events_scanned",
			Help:    "Number of log events scanned per report",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rastroo_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rastroo_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rastroo_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Instagram client metrics
	InstagramRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rastroo_instagram_requests_total",
			Help: "Total number of outbound Instagram Graph API requests",
		},
		[]string{"operation", "outcome"},
	)

	InstagramRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rastroo_instagram_request_duration_seconds",
			Help:    "Outbound Instagram Graph API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rastroo_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rastroo_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordEventIngested increments the ingested counter for a kind and
// grows the log size gauge.
func RecordEventIngested(kind string) {
	EventsIngestedTotal.WithLabelValues(kind).Inc()
	EventLogSize.Inc()
}

// SetEventLogSize seeds the log size gauge, typically once at startup
// after opening a durable backend.
func SetEventLogSize(n int) {
	EventLogSize.Set(float64(n))
}

// RecordEventDropped increments the dropped counter for a reason.
func RecordEventDropped(reason string) {
	EventsDroppedTotal.WithLabelValues(reason).Inc()
}

// RecordEventRejected increments the rejected counter for a reason.
func RecordEventRejected(reason string) {
	EventsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordReport observes one aggregation scan.
func RecordReport(duration time.Duration, eventsScanned int) {
	ReportDuration.Observe(duration.Seconds())
	ReportEventsScanned.Observe(float64(eventsScanned))
}

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments the in-flight gauge and returns a
// function that decrements it.
func TrackActiveRequest() func() {
	APIActiveRequests.Inc()
	return func() { APIActiveRequests.Dec() }
}

// RecordInstagramRequest records one outbound Graph API call.
func RecordInstagramRequest(operation, outcome string, duration time.Duration) {
	InstagramRequestsTotal.WithLabelValues(operation, outcome).Inc()
	InstagramRequestDuration.Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the state gauge for a breaker.
func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordCircuitBreakerTransition records a breaker state change.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
