// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package services adapts long-running components to suture.Service.

  - HTTPServerService runs an *http.Server with graceful shutdown.
  - PhaseWatcherService periodically derives every user's cycle phase and
    publishes cycle.phase_changed when it moves.
  - BadgerGCService runs badger value log garbage collection on a ticker.
    It stops for good when the database is in-memory.
  - ForwarderService keeps an events.Forwarder attached to the bus while
    it runs.

Every service returns ctx.Err() on cancellation and implements fmt.Stringer
so suture can name it in logs.
*/
package services
