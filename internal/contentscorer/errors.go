// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package contentscorer

import (
	"errors"
	"fmt"
	"io"
)

// ErrNoURL is returned by New when the scorer URL is empty.
var ErrNoURL = errors.New("content scorer url is required")

// ScorerError describes a failed call to the content scorer.
type ScorerError struct {
	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int
	Message    string
	Err        error
}

func (e *ScorerError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("content scorer: HTTP %d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("content scorer: %s: %v", e.Message, e.Err)
	}
	return "content scorer: " + e.Message
}

func (e *ScorerError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying later may succeed.
func (e *ScorerError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}

// maxErrorBodySize limits the response body read for error reporting.
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads at most maxErrorBodySize bytes of an error response.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
