// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

/*
Package supervisor provides process supervision for Bazaar using suture v4.

The tree isolates model maintenance from request serving:

	RootSupervisor ("bazaar")
	├── EngineSupervisor ("engine-layer")
	│   ├── RecommendService
	│   └── CacheCleanupService (memory cache only)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A retrain loop that panics or returns is restarted with suture's backoff
while the API layer keeps answering from the last published model.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddEngineService(services.NewRecommendService(engine, svcCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	errCh := tree.ServeBackground(ctx)

Supervisor events are logged through sutureslog, bridged onto zerolog by
logging.NewSlogHandler.
*/
package supervisor
