// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package services

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// Badger GC defaults.
const (
	defaultGCInterval     = 10 * time.Minute
	defaultGCDiscardRatio = 0.5

	// maxGCRounds bounds the rewrites per tick.
	maxGCRounds = 10
)

// ValueLogGC is satisfied by *badger.DB.
type ValueLogGC interface {
	RunValueLogGC(discardRatio float64) error
}

// BadgerGCService reclaims badger value log space on a ticker. Each tick
// runs GC until badger reports nothing left to rewrite.
type BadgerGCService struct {
	db           ValueLogGC
	interval     time.Duration
	discardRatio float64
	logger       zerolog.Logger
	name         string
}

// NewBadgerGCService creates the service. Zero values use a 10 minute
// interval and a 0.5 discard ratio.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerGCService(db ValueLogGC, interval time.Duration, discardRatio float64, logger zerolog.Logger) *BadgerGCService {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = defaultGCDiscardRatio
	}
	return &BadgerGCService{
		db:           db,
		interval:     interval,
		discardRatio: discardRatio,
		logger:       logger.With().Str("service", "badger-gc").Logger(),
		name:         "badger-gc",
	}
}

// Serve implements suture.Service. An in-memory database returns
// suture.ErrDoNotRestart.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rounds, err := s.collect(ctx)
			if errors.Is(err, badger.ErrGCInMemoryMode) {
				s.logger.Debug().Msg("in-memory database, value log GC disabled")
				return suture.ErrDoNotRestart
			}
			if err != nil {
				s.logger.Warn().Err(err).Msg("value log GC failed")
				continue
			}
			if rounds > 0 {
				s.logger.Debug().Int("rounds", rounds).Msg("value log GC rewrote files")
			}
		}
	}
}

// collect runs GC rounds until there is nothing to rewrite.
func (s *BadgerGCService) collect(ctx context.Context) (int, error) {
	for round := 0; round < maxGCRounds; round++ {
		if ctx.Err() != nil {
			return round, nil
		}
		err := s.db.RunValueLogGC(s.discardRatio)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected):
			return round, nil
		default:
			return round, err
		}
	}
	return maxGCRounds, nil
}

// String implements fmt.Stringer.
func (s *BadgerGCService) String() string {
	return s.name
}
