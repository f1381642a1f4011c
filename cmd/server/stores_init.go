// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/lunara/internal/config"
	"github.com/tomtom215/lunara/internal/logging"
	"github.com/tomtom215/lunara/internal/store"
)

// Stores holds every storage backend.
type Stores struct {
	// Memory serves users, cycles, the food catalog, logs and stats.
	Memory      *store.MemoryStore
	Badger      *badger.DB
	Preferences *store.BadgerPreferenceStore
	Feedback    *store.DuckDBFeedbackStore
}

// openStores opens badger and DuckDB and seeds the catalog when enabled.
func openStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	db, err := store.OpenBadger(cfg.Storage.BadgerPath)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}

	fb, err := store.OpenDuckDBFeedbackStore(ctx, cfg.Storage.DuckDBPath)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing badger")
		}
		return nil, fmt.Errorf("open feedback store: %w", err)
	}

	mem := store.NewMemoryStore()
	if cfg.Storage.SeedCatalog {
		store.SeedCatalog(mem)
	}

	logging.Info().
		Str("badger_path", displayPath(cfg.Storage.BadgerPath)).
		Str("duckdb_path", displayPath(cfg.Storage.DuckDBPath)).
		Bool("seed_catalog", cfg.Storage.SeedCatalog).
		Msg("Stores opened")

	return &Stores{
		Memory:      mem,
		Badger:      db,
		Preferences: store.NewBadgerPreferenceStore(db),
		Feedback:    fb,
	}, nil
}

// Close closes the databases. Errors are logged.
func (s *Stores) Close() {
	if err := s.Feedback.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing feedback store")
	}
	if err := s.Badger.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing preference store")
	}
}

// pingBadger reports a closed badger instance.
func (s *Stores) pingBadger(context.Context) error {
	if s.Badger.IsClosed() {
		return errors.New("badger is closed")
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return ":memory:"
	}
	return path
}
