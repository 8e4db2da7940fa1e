// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package contentscorer

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/bazaar/internal/recommend"
)

// BreakerName labels the scorer's circuit breaker metrics.
const BreakerName = "content-scorer"

// Config configures the content scorer client.
type Config struct {
	// URL is the scorer base URL. Requests go to URL + "/v1/score".
	URL string

	// Timeout bounds each HTTP call. The engine applies its own deadline too.
	Timeout time.Duration

	// RateLimit is the sustained request rate per second. 0 disables limiting.
	RateLimit float64
	Burst     int

	// BreakerFailures is the consecutive failure count that opens the circuit.
	BreakerFailures uint32

	// BreakerTimeout is how long the circuit stays open before probing.
	BreakerTimeout time.Duration
}

// DefaultConfig returns client defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:         2 * time.Second,
		RateLimit:       100,
		Burst:           20,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

type scoreRequest struct {
	UserID       string   `json:"user_id"`
	CandidateIDs []string `json:"candidate_ids"`
}

type scoredItem struct {
	ItemID      string   `json:"item_id"`
	Score       float64  `json:"score"`
	Confidence  *float64 `json:"confidence,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

type scoreResponse struct {
	Scores []scoredItem `json:"scores"`
}

// Client calls an external content-based model over HTTP.
// It implements recommend.ContentScorer.
type Client struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *breaker
	logger   zerolog.Logger
}

// New creates a content scorer client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrNoURL
	}
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = def.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = def.BreakerTimeout
	}

	logger = logger.With().Str("component", "content-scorer").Logger()

	c := &Client{
		endpoint: strings.TrimRight(cfg.URL, "/") + "/v1/score",
		client:   &http.Client{Timeout: cfg.Timeout},
		breaker:  newBreaker(BreakerName, cfg.BreakerFailures, cfg.BreakerTimeout, logger),
		logger:   logger,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// Score returns content-based scores for the candidates. An empty candidate
// list returns no scores without calling the scorer.
func (c *Client) Score(ctx context.Context, userID string, candidateIDs []string) ([]recommend.Candidate, error) {
	if len(candidateIDs) == 0 {
		return nil, nil
	}

	return c.breaker.execute(func() ([]recommend.Candidate, error) {
		return c.score(ctx, userID, candidateIDs)
	})
}

// State returns the circuit breaker state ("closed", "half-open" or "open").
func (c *Client) State() string {
	return stateToString(c.breaker.state())
}

// Available reports whether calls are currently let through.
func (c *Client) Available() bool {
	return c.breaker.state() != gobreaker.StateOpen
}

func (c *Client) score(ctx context.Context, userID string, candidateIDs []string) ([]recommend.Candidate, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	body, err := json.Marshal(scoreRequest{UserID: userID, CandidateIDs: candidateIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ScorerError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ScorerError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(readBodyForError(resp.Body))),
		}
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ScorerError{Message: "invalid response body", Err: err}
	}

	cands := toCandidates(out.Scores, candidateIDs)
	c.logger.Debug().
		Str("user_id", userID).
		Int("requested", len(candidateIDs)).
		Int("scored", len(cands)).
		Dur("duration", time.Since(start)).
		Msg("content scores received")

	return cands, nil
}

// toCandidates keeps scores for requested items only. Non-finite scores are
// dropped and confidence defaults to 1 when the scorer omits it.
func toCandidates(scores []scoredItem, requested []string) []recommend.Candidate {
	allowed := make(map[string]struct{}, len(requested))
	for _, id := range requested {
		allowed[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(scores))
	cands := make([]recommend.Candidate, 0, len(scores))
	for _, s := range scores {
		if _, ok := allowed[s.ItemID]; !ok {
			continue
		}
		if _, dup := seen[s.ItemID]; dup {
			continue
		}
		if math.IsNaN(s.Score) || math.IsInf(s.Score, 0) {
			continue
		}
		seen[s.ItemID] = struct{}{}

		conf := 1.0
		if s.Confidence != nil {
			conf = clamp01(*s.Confidence)
		}
		cands = append(cands, recommend.Candidate{
			ItemID:      s.ItemID,
			Score:       s.Score,
			Support:     1,
			Confidence:  conf,
			Explanation: s.Explanation,
			Source:      recommend.ContentSource{},
		})
	}
	return cands
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var _ recommend.ContentScorer = (*Client)(nil)
