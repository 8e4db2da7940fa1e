// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/bazaar/internal/api"
	"github.com/tomtom215/bazaar/internal/config"
	"github.com/tomtom215/bazaar/internal/logging"
	"github.com/tomtom215/bazaar/internal/supervisor"
	"github.com/tomtom215/bazaar/internal/supervisor/services"
)

// shutdownTimeout bounds HTTP draining and supervisor teardown.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("bazaar exited with error")
	}
}

//nolint:gocyclo // sequential initialization steps
func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stdout,
	})
	logger := logging.Logger()

	logger.Info().
		Str("addr", cfg.Server.Addr()).
		Str("store", cfg.Store.Driver).
		Bool("cache", cfg.Cache.Enabled).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("content_scorer", cfg.ContentScorer.Enabled).
		Msg("starting bazaar")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := initStore(ctx, &cfg.Store, logging.WithComponent("store"))
	if err != nil {
		return err
	}
	defer closeStore()

	rc, err := initCache(ctx, &cfg.Cache, logging.WithComponent("cache"))
	if err != nil {
		return err
	}
	deps := engineDeps{store: store}
	if rc != nil {
		defer rc.close()
		deps.cache = rc.cache
	}

	scorer, err := initScorer(&cfg.ContentScorer, logging.WithComponent("content-scorer"))
	if err != nil {
		return err
	}
	deps.scorer = scorer

	engine, err := initEngine(cfg, deps, logger)
	if err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: shutdownTimeout,
	})
	if err != nil {
		return err
	}

	tree.AddEngineService(services.NewRecommendService(engine, services.RecommendServiceConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		TrainInterval:  cfg.Recommend.TrainInterval,
	}, logger))

	if rc != nil && rc.cleaner != nil {
		tree.AddEngineService(services.NewCacheCleanupService(rc.cleaner, time.Minute, logger))
	}

	// A nil *contentscorer.Client must not become a non-nil interface.
	var scorerStatus api.ScorerStatus
	if scorer != nil {
		scorerStatus = scorer
	}

	handler := api.NewHandler(engine, scorerStatus, api.HandlerConfig{
		RequestTimeout: cfg.Server.Timeout,
	}, logger)

	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Server.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Server.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Server.RateLimitDisabled

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, api.NewChiMiddleware(mwCfg)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Synchronous POST /api/v1/train can outlast a request deadline.
		WriteTimeout: cfg.Server.Timeout + cfg.Recommend.TrainTimeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout, logger))

	logger.Info().Msg("supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("service did not stop within timeout")
		}
	}

	logger.Info().Msg("bazaar stopped")
	return nil
}
