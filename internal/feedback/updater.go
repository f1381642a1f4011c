// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package feedback

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/metrics"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/store"
)

// lockStripes is the number of mutexes guarding preference updates.
const lockStripes = 64

// Updater applies a ScoringPolicy to the preference store. Updates for the
// same (user, food) pair are serialized; different pairs proceed in
// parallel unless they share a stripe.
type Updater struct {
	prefs  store.PreferenceStore
	policy ScoringPolicy
	logger zerolog.Logger
	locks  [lockStripes]sync.Mutex
}

// NewUpdater creates an updater.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewUpdater(prefs store.PreferenceStore, policy ScoringPolicy, logger zerolog.Logger) *Updater {
	return &Updater{
		prefs:  prefs,
		policy: policy,
		logger: logger.With().Str("component", "preference-updater").Str("policy", policy.Name()).Logger(),
	}
}

// Policy returns the active scoring policy.
func (u *Updater) Policy() ScoringPolicy {
	return u.policy
}

func (u *Updater) lockFor(userID, foodID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(foodID))
	return &u.locks[h.Sum32()%lockStripes]
}

// RecordFoodLogged applies the policy's food-logged rule.
func (u *Updater) RecordFoodLogged(ctx context.Context, userID, foodID string, at time.Time) (*models.FoodPreference, error) {
	mu := u.lockFor(userID, foodID)
	mu.Lock()
	defer mu.Unlock()

	p, err := u.prefs.UpdatePreference(ctx, userID, foodID, func(cur *models.FoodPreference) (*models.FoodPreference, error) {
		return u.policy.OnFoodLogged(cur, userID, foodID, at), nil
	})
	if err != nil {
		return nil, fmt.Errorf("update preference %s/%s: %w", userID, foodID, err)
	}
	metrics.PreferenceUpdates.WithLabelValues("food_logged").Inc()
	return p, nil
}

// RecordFeedback applies the policy's feedback rule.
func (u *Updater) RecordFeedback(ctx context.Context, userID, foodID string, action models.FeedbackAction, at time.Time) (*models.FoodPreference, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("invalid feedback action %q", action)
	}

	mu := u.lockFor(userID, foodID)
	mu.Lock()
	defer mu.Unlock()

	p, err := u.prefs.UpdatePreference(ctx, userID, foodID, func(cur *models.FoodPreference) (*models.FoodPreference, error) {
		return u.policy.OnFeedback(cur, userID, foodID, action, at), nil
	})
	if err != nil {
		return nil, fmt.Errorf("update preference %s/%s: %w", userID, foodID, err)
	}
	metrics.PreferenceUpdates.WithLabelValues("feedback").Inc()
	return p, nil
}

// HandleFoodLogged is the food.logged event handler.
func (u *Updater) HandleFoodLogged(ctx context.Context, e events.Event) error {
	payload, ok := events.PayloadAs[events.FoodLogged](e)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Type)
	}
	p, err := u.RecordFoodLogged(ctx, e.UserID, payload.FoodID, e.Timestamp)
	if err != nil {
		return err
	}
	u.logger.Debug().
		Str("user_id", e.UserID).
		Str("food_id", payload.FoodID).
		Float64("score", p.Score).
		Int("eat_count", p.EatCount).
		Msg("Preference updated from food log")
	return nil
}

// HandleFeedback is the recommendation.feedback event handler.
func (u *Updater) HandleFeedback(ctx context.Context, e events.Event) error {
	payload, ok := events.PayloadAs[events.RecommendationFeedback](e)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Type)
	}
	p, err := u.RecordFeedback(ctx, e.UserID, payload.FoodID, payload.Action, e.Timestamp)
	if err != nil {
		return err
	}
	u.logger.Debug().
		Str("user_id", e.UserID).
		Str("food_id", payload.FoodID).
		Str("action", string(payload.Action)).
		Float64("score", p.Score).
		Float64("acceptance_rate", p.AcceptanceRate).
		Msg("Preference updated from feedback")
	return nil
}
