// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

/*
Package contentscorer is the HTTP client for the external content-based model.

The scorer receives the shopper and the candidate item IDs left after
exclusions and returns a score per item:

	POST {url}/v1/score
	{"user_id": "u-42", "candidate_ids": ["p1", "p2"]}

	200 OK
	{"scores": [{"item_id": "p1", "score": 0.8, "confidence": 0.9}]}

Calls are rate limited with golang.org/x/time/rate and pass through a
sony/gobreaker circuit breaker. When the circuit is open Score fails
immediately with a *ScorerError and the engine serves collaborative-only
results flagged as degraded.

Breaker metrics are exported under bazaar_circuit_breaker_* with
name="content-scorer".
*/
package contentscorer
