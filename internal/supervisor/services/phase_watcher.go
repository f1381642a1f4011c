// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/store"
)

// UserLister lists known users.
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// LatestCycleReader reads a user's latest cycle.
type LatestCycleReader interface {
	LatestCycle(ctx context.Context, userID string) (*cycle.Record, error)
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event)
}

// PhaseWatcherConfig tunes the watcher.
type PhaseWatcherConfig struct {
	// Interval between evaluations. Default: 1h
	Interval time.Duration

	// Now replaces time.Now.
	Now func() time.Time
}

// PhaseWatcherService publishes cycle.phase_changed when a user's derived
// phase differs from the one seen on the previous evaluation. The first
// evaluation of a user only records the phase.
type PhaseWatcherService struct {
	users     UserLister
	cycles    LatestCycleReader
	publisher EventPublisher
	config    PhaseWatcherConfig
	logger    zerolog.Logger
	name      string

	mu   sync.Mutex
	last map[string]cycle.Phase
}

// NewPhaseWatcherService creates the watcher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPhaseWatcherService(users UserLister, cycles LatestCycleReader, publisher EventPublisher, cfg PhaseWatcherConfig, logger zerolog.Logger) *PhaseWatcherService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &PhaseWatcherService{
		users:     users,
		cycles:    cycles,
		publisher: publisher,
		config:    cfg,
		logger:    logger.With().Str("service", "phase-watcher").Logger(),
		name:      "phase-watcher",
		last:      make(map[string]cycle.Phase),
	}
}

// Serve implements suture.Service. It evaluates once on start and then on
// every tick. Evaluation errors are logged and do not restart the service.
func (s *PhaseWatcherService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.config.Interval).Msg("phase watcher starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		if changed, err := s.Check(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("phase evaluation failed")
		} else if changed > 0 {
			s.logger.Debug().Int("changed", changed).Msg("phase changes published")
		}

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("phase watcher shutting down")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Check evaluates every user once and returns the number of published
// changes. Users without cycles are skipped.
func (s *PhaseWatcherService) Check(ctx context.Context) (int, error) {
	ids, err := s.users.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	now := s.config.Now()
	changed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return changed, ctx.Err()
		}

		rec, err := s.cycles.LatestCycle(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("latest cycle lookup failed")
			continue
		}

		phase := cycle.CurrentPhase(rec, now)
		from, seen := s.swap(id, phase)
		if !seen || from == phase {
			continue
		}

		s.publisher.Publish(ctx, events.New(events.TypeCyclePhaseChanged, id, events.PhaseChanged{
			From: from,
			To:   phase,
			Day:  cycle.DayInCycle(rec, now),
		}))
		changed++
	}
	return changed, nil
}

// swap stores phase for userID and returns the previous value.
func (s *PhaseWatcherService) swap(userID string, phase cycle.Phase) (cycle.Phase, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.last[userID]
	s.last[userID] = phase
	return prev, ok
}

// String implements fmt.Stringer.
func (s *PhaseWatcherService) String() string {
	return s.name
}
