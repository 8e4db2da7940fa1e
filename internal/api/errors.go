// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInsufficientData   = "INSUFFICIENT_DATA"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// classifyError maps an engine error to an HTTP status and error code.
// The message is safe to return to clients.
func classifyError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		return http.StatusBadRequest, ErrCodeBadRequest, err.Error()
	case errors.Is(err, recommend.ErrTrainingInProgress):
		return http.StatusConflict, ErrCodeConflict, "Training already in progress"
	case errors.Is(err, recommend.ErrStaleModel):
		return http.StatusConflict, ErrCodeConflict, "A newer model is already serving"
	case errors.Is(err, recommend.ErrInsufficientData):
		return http.StatusUnprocessableEntity, ErrCodeInsufficientData, err.Error()
	case errors.Is(err, recommend.ErrStoreNotSet), errors.Is(err, recommend.ErrBuilderNotSet):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation engine is not configured"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"
	}
}
