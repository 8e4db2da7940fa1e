// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

/*
Package api serves the Bazaar recommendation engine over HTTP using chi.

# Endpoints

	POST /api/v1/recommendations  rank items for a user
	POST /api/v1/train            retrain and publish a new model
	GET  /api/v1/model            published model, training status, counters
	GET  /api/v1/config           effective engine configuration
	GET  /health                  liveness with model and scorer state
	GET  /health/ready            503 until the first model is published
	GET  /metrics                 Prometheus exposition

# Responses

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}, "meta": {...}}

Request bodies are validated with go-playground/validator before they reach
the engine. Engine errors map to statuses in classifyError: invalid requests
are 400, a concurrent retrain is 409, timeouts are 504.

# Rate limiting

go-chi/httprate limits each client IP per route group. Training has its own
strict limit since each run rebuilds both similarity matrices.
*/
package api
