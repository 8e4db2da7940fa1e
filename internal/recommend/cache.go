// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// cacheKeyInput is the normalized request used to derive a cache key.
type cacheKeyInput struct {
	Limit        int             `json:"limit"`
	Weights      HybridWeights   `json:"weights"`
	ExcludeRated bool            `json:"exclude_rated"`
	Exclude      []string        `json:"exclude"`
	Context      *RequestContext `json:"context"`
	Filter       string          `json:"filter"`
	Items        []Item          `json:"items"`
}

func (e *Engine) cacheEnabled() bool {
	return e.cache != nil && e.config.Cache.Enabled
}

// cacheKey derives a key from the model version, user and normalized
// options. A new model version never reuses keys of the previous one.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) cacheKey(model *Model, req Request, limit int, weights HybridWeights) string {
	var version int64
	if model != nil {
		version = model.Version()
	}

	exclude := append([]string(nil), req.Options.ExcludeItemIDs...)
	sort.Strings(exclude)

	items := append([]Item(nil), req.Items...)
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	in := cacheKeyInput{
		Limit:        limit,
		Weights:      weights,
		ExcludeRated: req.Options.excludeRated(),
		Exclude:      exclude,
		Context:      req.Options.Context,
		Filter:       req.Options.Filter,
		Items:        items,
	}

	h := fnv.New64a()
	// Marshal cannot fail for these plain types; a failure only weakens the key.
	if b, err := json.Marshal(in); err == nil {
		_, _ = h.Write(b)
	}

	return fmt.Sprintf("%s:v%d:%s:%016x", e.config.Cache.KeyPrefix, version, req.UserID, h.Sum64())
}

// tryGetCachedResponse returns a cached response, or nil on miss or error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResponse(ctx context.Context, key string, req Request, model *Model, start time.Time, logger zerolog.Logger) *Response {
	recs, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("result cache read failed")
		e.cacheMisses.Add(1)
		return nil
	}
	if !ok {
		e.cacheMisses.Add(1)
		return nil
	}

	e.cacheHits.Add(1)
	logger.Debug().Msg("cache hit")

	coldStart := true
	if model != nil {
		if u, known := model.User(req.UserID); known && len(u.Ratings) > 0 {
			coldStart = false
		}
	}

	// Nothing is evaluated on a hit.
	resp := e.buildResponse(req, model, recs, coldStart, false, 0, start)
	resp.Metadata.CacheHit = true
	return resp
}

// storeCache writes results to the cache. Failures are logged only.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) storeCache(ctx context.Context, key string, recs []Recommendation, logger zerolog.Logger) {
	if err := e.cache.Set(ctx, key, recs); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("result cache write failed")
	}
}
