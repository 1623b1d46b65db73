// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

// Package metrics provides Prometheus instrumentation for AskRed:
// API endpoint latency and throughput, cache efficiency (hot tier and
// persistent store), upstream collaborator calls, and recommendation
// pipeline outcomes.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askred_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askred_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.005, 0.05, 0.25, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "askred_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Cache metrics, labeled by tier ("hot" or "store")
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askred_cache_hits_total",
			Help: "Total number of query cache hits",
		},
		[]string{"tier"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askred_cache_misses_total",
			Help: "Total number of query cache misses",
		},
		[]string{"tier"},
	)

	CacheWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "askred_cache_write_errors_total",
			Help: "Total number of failed write-through inserts",
		},
	)

	// Upstream collaborator metrics
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askred_search_requests_total",
			Help: "Total number of search provider requests",
		},
		[]string{"outcome"}, // "success", "failure", "rejected"
	)

	RedditFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askred_reddit_fetches_total",
			Help: "Total number of Reddit comment fetches",
		},
		[]string{"outcome"}, // "success", "failure"
	)

	RedditTokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askred_reddit_token_refreshes_total",
			Help: "Total number of Reddit token refresh attempts",
		},
		[]string{"outcome"}, // "success", "failure"
	)

	ExtractionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askred_extraction_requests_total",
			Help: "Total number of extraction model calls",
		},
		[]string{"outcome"}, // "success", "failure", "parse_error"
	)

	// Circuit breaker metrics (search provider)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "askred_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askred_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Pipeline metrics
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askred_pipeline_duration_seconds",
			Help:    "End-to-end duration of live recommendation pipelines",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
	)

	PipelineResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askred_pipeline_results",
			Help:    "Final recommendation count per live pipeline run",
			Buckets: []float64{0, 1, 2, 4, 6, 8, 10, 12},
		},
	)

	PipelineThreadsProcessed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askred_pipeline_threads_processed",
			Help:    "Discussion threads processed per live pipeline run",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, path string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the active request gauge at request
// start/end.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
