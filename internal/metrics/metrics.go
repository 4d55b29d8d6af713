// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

// Package metrics holds the Prometheus instrumentation shared by the TMDB
// client, the ingestion pipelines, the DuckDB store and the ranker.
// Everything registers with the default registry through promauto and is
// exposed on GET /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TMDB API
	TMDBRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeel_tmdb_requests_total",
			Help: "Total number of TMDB API requests by endpoint and HTTP status",
		},
		[]string{"endpoint", "status"},
	)

	TMDBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinefeel_tmdb_request_duration_seconds",
			Help:    "Duration of TMDB API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	TMDBRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinefeel_tmdb_rate_limited_total",
			Help: "Total number of HTTP 429 responses received from TMDB",
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinefeel_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeel_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeel_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Ingestion
	SyncMoviesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeel_sync_movies_total",
			Help: "Movies handled by TMDB sync and backfill, by result",
		},
		[]string{"operation", "result"}, // result: saved, skipped, failed
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinefeel_sync_duration_seconds",
			Help:    "Duration of sync operations in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"operation"},
	)

	SyncLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinefeel_sync_last_success_timestamp",
			Help: "Unix timestamp of the last successful sync operation",
		},
		[]string{"operation"},
	)

	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeel_import_rows_total",
			Help: "CSV rows handled by the dataset import, by result",
		},
		[]string{"result"}, // imported, skipped, error
	)

	// DuckDB
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinefeel_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeel_db_query_errors_total",
			Help: "Total number of failed DuckDB queries",
		},
		[]string{"operation"},
	)

	// Ranking
	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinefeel_rank_duration_seconds",
			Help:    "Duration of similarity ranking calls in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	RankCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinefeel_rank_candidates",
			Help:    "Number of candidates scored per ranking call",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)

	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeel_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinefeel_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordTMDBRequest records one TMDB round trip. status is 0 for transport errors.
func RecordTMDBRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	TMDBRequestsTotal.WithLabelValues(endpoint, label).Inc()
	TMDBRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordDBQuery records a DuckDB query.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordSyncOperation records a completed sync pass and its per-movie outcomes.
func RecordSyncOperation(operation string, duration time.Duration, saved, skipped, failed int, err error) {
	SyncDuration.WithLabelValues(operation).Observe(duration.Seconds())
	SyncMoviesTotal.WithLabelValues(operation, "saved").Add(float64(saved))
	SyncMoviesTotal.WithLabelValues(operation, "skipped").Add(float64(skipped))
	SyncMoviesTotal.WithLabelValues(operation, "failed").Add(float64(failed))
	if err == nil {
		SyncLastSuccess.WithLabelValues(operation).Set(float64(time.Now().Unix()))
	}
}

// RecordRank records one ranking call.
func RecordRank(candidates int, duration time.Duration) {
	RankDuration.Observe(duration.Seconds())
	RankCandidates.Observe(float64(candidates))
}

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
