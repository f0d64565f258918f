// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

// Package middleware provides HTTP middleware shared by the API router.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/MateusDN896/RastroO/internal/metrics"
)

// PrometheusMetrics records request counts, latency, and in-flight
// gauge for every API request.
func PrometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		done := metrics.TrackActiveRequest()
		defer done()

		start := time.Now()

		wrapper := &metricsResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		metrics.RecordAPIRequest(
			r.Method,
			normalizeEndpoint(r.URL.Path),
			wrapper.statusCode,
			time.Since(start),
		)
	})
}

// normalizeEndpoint collapses static asset paths into a single label so
// per-file paths do not blow up metric cardinality. API routes are a
// small fixed set and pass through unchanged.
func normalizeEndpoint(path string) string {
	if path == "/" || strings.HasPrefix(path, "/api/") || path == "/metrics" ||
		path == "/healthz" || path == "/readyz" {
		return path
	}
	return "/static"
}

// metricsResponseWriter wraps http.ResponseWriter to capture status code
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code
func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
