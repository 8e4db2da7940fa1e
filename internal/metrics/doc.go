// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are registered on the default registry with promauto and exposed at
the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation Metrics:
  - bazaar_recommend_requests_total: Requests by outcome (counter)
    Labels: outcome (ok, cache_hit, invalid, error)
  - bazaar_recommend_latency_seconds: End-to-end latency (histogram)
  - bazaar_recommend_results: Results returned per request (histogram)
  - bazaar_recommend_cold_start_total: Requests without collaborative signal
  - bazaar_recommend_degraded_total: Collaborative-only results

Training Metrics:
  - bazaar_training_duration_seconds: Training run duration (histogram)
  - bazaar_training_runs_total: Runs by status (success, failure, skipped)
  - bazaar_training_skipped_records_total: Invalid interactions by reason
  - bazaar_model_subjects: Users, items and retained pairs (gauge)
    Labels: matrix
  - bazaar_model_version: Published model version (gauge)
  - bazaar_model_last_trained_timestamp: Last successful run (gauge)

Cache Metrics:
  - bazaar_cache_operations_total: Labels backend, result (hit, miss, error, set)

Circuit Breaker Metrics:
  - bazaar_circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - bazaar_circuit_breaker_requests_total: Labels name, result
  - bazaar_circuit_breaker_consecutive_failures
  - bazaar_circuit_breaker_state_transitions_total: Labels name, from_state, to_state

HTTP Metrics:
  - bazaar_http_requests_total: Labels method, route, status
  - bazaar_http_request_duration_seconds: Labels method, route
  - bazaar_http_active_requests: In-flight requests (gauge)
  - bazaar_http_rate_limit_hits_total: Labels route

# Example Queries

Cold start ratio:

	rate(bazaar_recommend_cold_start_total[5m]) / rate(bazaar_recommend_requests_total[5m])

p95 recommendation latency:

	histogram_quantile(0.95, rate(bazaar_recommend_latency_seconds_bucket[5m]))

Content scorer circuit open:

	bazaar_circuit_breaker_state{name="content-scorer"} == 2
*/
package metrics
