// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/cache"
	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/edgecase"
	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/feedback"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
	"github.com/tomtom215/lunara/internal/recommend"
	"github.com/tomtom215/lunara/internal/store"
)

// Profile fallbacks used when the user has not filled in their profile.
const (
	defaultWeightKg = 65
	defaultActivity = nutrition.ActivityModeratelyActive
)

// Bounds on the goal announcement memory. Entries outlive the day they
// describe so a summary requested late the same day is not re-announced.
const (
	goalsAnnouncedCapacity = 50000
	goalsAnnouncedTTL      = 48 * time.Hour
)

// Config tunes the service.
type Config struct {
	// DeficiencyRatio is the actual/goal ratio below which a nutrient is
	// passed to strategies as deficient. Default: 0.7
	DeficiencyRatio float64

	// CandidateLimit bounds the foods considered per request. Default: 100
	CandidateLimit int
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		DeficiencyRatio: nutrition.DeficiencyWarningRatio,
		CandidateLimit:  100,
	}
}

// Deps are the collaborators of the service. Analyzer is optional.
type Deps struct {
	Users       store.UserStore
	Cycles      store.CycleStore
	Foods       store.FoodCatalog
	Logs        store.LogStore
	Preferences store.PreferenceStore
	Feedback    store.FeedbackStore
	Stats       store.StatsStore
	Engine      *recommend.Engine
	Detector    *edgecase.Detector
	Analyzer    *feedback.Analyzer
	Publisher   feedback.Publisher
}

// Service implements the user-facing operations.
type Service struct {
	Deps
	config     Config
	calculator *nutrition.Calculator
	logger     zerolog.Logger
	now        func() time.Time

	// background publishes
	wg sync.WaitGroup

	// (user, day) pairs whose goal.achieved event was already published
	goalsAnnounced *cache.LRU[struct{}]
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(deps Deps, cfg Config, logger zerolog.Logger, opts ...Option) *Service {
	if cfg.DeficiencyRatio <= 0 {
		cfg.DeficiencyRatio = nutrition.DeficiencyWarningRatio
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = DefaultConfig().CandidateLimit
	}
	s := &Service{
		Deps:           deps,
		config:         cfg,
		calculator:     nutrition.NewCalculator(),
		logger:         logger.With().Str("component", "service").Logger(),
		now:            time.Now,
		goalsAnnounced: cache.NewLRU[struct{}](goalsAnnouncedCapacity, goalsAnnouncedTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wait blocks until background event publishes have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.Publisher != nil {
		s.Publisher.Publish(ctx, e)
	}
}

// publishAsync publishes e on a background goroutine detached from the
// request's cancellation.
func (s *Service) publishAsync(ctx context.Context, e events.Event) {
	if s.Publisher == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Publisher.Publish(context.WithoutCancel(ctx), e)
	}()
}

func (s *Service) user(ctx context.Context, userID string) (*models.UserProfile, error) {
	u, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "user %s", userID)
	}
	return u, nil
}

// latestCycle returns ErrDataInsufficient when the user has no cycles.
func (s *Service) latestCycle(ctx context.Context, userID string) (*cycle.Record, error) {
	rec, err := s.Cycles.LatestCycle(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrDataInsufficient
	}
	if err != nil {
		return nil, translate(err, "latest cycle for %s", userID)
	}
	return rec, nil
}

// bodyMetrics returns weight and activity with fallbacks for an incomplete
// profile.
func bodyMetrics(u *models.UserProfile) (float64, nutrition.ActivityLevel) {
	weight := u.WeightKg
	if weight <= 0 {
		weight = defaultWeightKg
	}
	activity := u.ActivityLevel
	if activity == nutrition.ActivityUnknown {
		activity = defaultActivity
	}
	return weight, activity
}

// actuals aggregates the user's logs on the calendar day of ref. Logs of
// foods missing from the catalog are skipped.
func (s *Service) actuals(ctx context.Context, userID string, ref time.Time) (nutrition.Amounts, int, error) {
	from := cycle.Day(ref)
	logs, err := s.Logs.LogsInRange(ctx, userID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nutrition.Amounts{}, 0, translate(err, "logs for %s", userID)
	}

	portions := make([]nutrition.Portion, 0, len(logs))
	for i := range logs {
		food, err := s.Foods.GetFood(ctx, logs[i].FoodID)
		if err != nil {
			s.logger.Debug().Err(err).Str("food_id", logs[i].FoodID).Msg("Skipping log of unknown food")
			continue
		}
		portions = append(portions, nutrition.Portion{Profile: food.Nutrients, Servings: logs[i].Servings})
	}
	return nutrition.Aggregate(portions), len(logs), nil
}
