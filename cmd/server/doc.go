// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package main is the entry point for the Lunara server.

Lunara recommends foods that fit the user's menstrual cycle phase, their
nutrient gaps for the day and their learned food preferences.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("lunara")
	├── DataSupervisor ("data-layer")
	│   └── Badger value log GC
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Phase watcher (cycle.phase_changed events)
	│   └── Event forwarder (optional, Watermill gochannel or NATS)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, YAML file and environment
 2. Logging: zerolog with JSON/console output modes
 3. Stores: BadgerDB for preferences, DuckDB for feedback, in-memory for
    users, cycles, the seeded food catalog, logs and stats
 4. Event bus and feedback handlers (preferences, gamification, notifications)
 5. Optional event forwarder
 6. Recommendation engine with the strategies in recommend.enabled_strategies
 7. Service and HTTP router
 8. Supervisor tree

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
  - Environment variables (HTTP_PORT, LOG_LEVEL, BADGER_PATH, DUCKDB_PATH, ...)
  - Config file (config.yaml, or the path in CONFIG_PATH)
  - Built-in defaults

# Build Tags

	go build ./cmd/server               # gochannel forwarding only
	go build -tags nats ./cmd/server    # NATS publisher and embedded server

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests within server.shutdown_timeout, pending event publishes finish,
then the forwarder and the stores are closed.
*/
package main
