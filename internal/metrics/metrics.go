// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Recommendation latency and outcomes
// - Model training runs and data quality
// - Result cache efficiency
// - Content scorer circuit breaker
// - HTTP endpoint latency and throughput

var (
	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"outcome"}, // "ok", "cache_hit", "invalid", "error"
	)

	RecommendLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bazaar_recommend_latency_seconds",
			Help:    "Recommendation latency in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	RecommendColdStart = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bazaar_recommend_cold_start_total",
			Help: "Total number of requests served without collaborative signal",
		},
	)

	RecommendDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bazaar_recommend_degraded_total",
			Help: "Total number of collaborative-only results after a content scorer failure",
		},
	)

	RecommendResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bazaar_recommend_results",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 5, 10, 20, 30, 40, 50},
		},
	)

	// Training Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bazaar_training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_training_runs_total",
			Help: "Total number of training runs",
		},
		[]string{"status"}, // "success", "failure", "skipped"
	)

	TrainingSkippedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_training_skipped_records_total",
			Help: "Total number of interactions skipped during training",
		},
		[]string{"reason"},
	)

	ModelSubjects = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bazaar_model_subjects",
			Help: "Subjects and retained pairs in the published model",
		},
		[]string{"matrix"}, // "users", "items", "user_pairs", "item_pairs"
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bazaar_model_version",
			Help: "Version of the published model",
		},
	)

	ModelLastTrained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bazaar_model_last_trained_timestamp",
			Help: "Unix timestamp of the last successful training run",
		},
	)

	// Cache Metrics
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_cache_operations_total",
			Help: "Total number of result cache operations",
		},
		[]string{"backend", "result"}, // result: "hit", "miss", "error", "set"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bazaar_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bazaar_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bazaar_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bazaar_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	HTTPRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_http_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)

// RecordRecommendation records the outcome of one recommendation request.
func RecordRecommendation(outcome string, duration time.Duration, results int, coldStart, degraded bool) {
	RecommendRequestsTotal.WithLabelValues(outcome).Inc()
	RecommendLatency.Observe(duration.Seconds())
	RecommendResults.Observe(float64(results))
	if coldStart {
		RecommendColdStart.Inc()
	}
	if degraded {
		RecommendDegraded.Inc()
	}
}

// RecordTrainingRun records a finished training run. skipped maps a skip
// reason to the number of interactions dropped for it.
func RecordTrainingRun(duration time.Duration, skipped map[string]int, err error) {
	TrainingDuration.Observe(duration.Seconds())
	for reason, n := range skipped {
		TrainingSkippedRecords.WithLabelValues(reason).Add(float64(n))
	}
	if err != nil {
		TrainingRuns.WithLabelValues("failure").Inc()
		return
	}
	TrainingRuns.WithLabelValues("success").Inc()
	ModelLastTrained.Set(float64(time.Now().Unix()))
}

// RecordTrainingSkipped records a run that did not start because another
// run held the training lock.
func RecordTrainingSkipped() {
	TrainingRuns.WithLabelValues("skipped").Inc()
}

// UpdateModelGauges publishes the size of the current model.
func UpdateModelGauges(version int64, users, items, userPairs, itemPairs int) {
	ModelVersion.Set(float64(version))
	ModelSubjects.WithLabelValues("users").Set(float64(users))
	ModelSubjects.WithLabelValues("items").Set(float64(items))
	ModelSubjects.WithLabelValues("user_pairs").Set(float64(userPairs))
	ModelSubjects.WithLabelValues("item_pairs").Set(float64(itemPairs))
}

// RecordCacheOperation records a result cache operation.
func RecordCacheOperation(backend, result string) {
	CacheOperations.WithLabelValues(backend, result).Inc()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight HTTP requests.
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}
