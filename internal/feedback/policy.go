// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package feedback

import (
	"fmt"
	"time"

	"github.com/tomtom215/lunara/internal/config"
	"github.com/tomtom215/lunara/internal/models"
)

// ScoringPolicy computes the next preference record. cur is nil when the
// pair has no record yet. Implementations must not mutate cur.
type ScoringPolicy interface {
	Name() string
	OnFoodLogged(cur *models.FoodPreference, userID, foodID string, at time.Time) *models.FoodPreference
	OnFeedback(cur *models.FoodPreference, userID, foodID string, action models.FeedbackAction, at time.Time) *models.FoodPreference
}

// NewPolicy returns the policy registered under name.
func NewPolicy(name string) (ScoringPolicy, error) {
	switch name {
	case "", config.ScoringAdditive:
		return AdditivePolicy{}, nil
	case config.ScoringBlend:
		return BlendPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown scoring policy %q", name)
	}
}

// Additive policy constants
const (
	additiveLogIncrement = 0.1
	additiveLogSeed      = 0.5
	additiveAcceptSeed   = 0.7
	additiveOtherSeed    = 0.3
)

var additiveDelta = map[models.FeedbackAction]float64{
	models.ActionAccepted: 0.15,
	models.ActionRejected: -0.20,
	models.ActionSaved:    0.05,
}

// AdditivePolicy moves the score by a fixed step per action.
type AdditivePolicy struct{}

// Name implements ScoringPolicy.
func (AdditivePolicy) Name() string { return config.ScoringAdditive }

// OnFoodLogged seeds a new record at 0.5 or adds 0.1, capped at 1.
func (AdditivePolicy) OnFoodLogged(cur *models.FoodPreference, userID, foodID string, at time.Time) *models.FoodPreference {
	if cur == nil {
		return &models.FoodPreference{
			UserID:         userID,
			FoodID:         foodID,
			EatCount:       1,
			AcceptanceRate: 1,
			Score:          additiveLogSeed,
			LastEaten:      at,
			UpdatedAt:      at,
		}
	}
	next := *cur
	next.EatCount++
	next.Score = clamp01(next.Score + additiveLogIncrement)
	next.LastEaten = at
	next.UpdatedAt = at
	return &next
}

// OnFeedback seeds a new record at 0.7 for an acceptance and 0.3 otherwise.
// Existing records move by +0.15, -0.20 or +0.05.
func (AdditivePolicy) OnFeedback(cur *models.FoodPreference, userID, foodID string, action models.FeedbackAction, at time.Time) *models.FoodPreference {
	next := countAction(cur, userID, foodID, action, at)
	if cur == nil {
		next.Score = additiveOtherSeed
		if action == models.ActionAccepted {
			next.Score = additiveAcceptSeed
		}
		return next
	}
	next.Score = clamp01(cur.Score + additiveDelta[action])
	return next
}

// Blend policy weights
const (
	blendRateWeight      = 0.5
	blendRecencyWeight   = 0.3
	blendFrequencyWeight = 0.2

	recencyAccepted = 1.0
	recencyOther    = 0.3

	// frequencySaturation is the eat count at which frequency reaches 1.
	frequencySaturation = 10
)

// BlendPolicy recomputes the score from acceptance rate, recency of the last
// action and eating frequency.
type BlendPolicy struct{}

// Name implements ScoringPolicy.
func (BlendPolicy) Name() string { return config.ScoringBlend }

// OnFoodLogged counts the log as an acceptance for recency.
func (BlendPolicy) OnFoodLogged(cur *models.FoodPreference, userID, foodID string, at time.Time) *models.FoodPreference {
	var next models.FoodPreference
	if cur == nil {
		next = models.FoodPreference{UserID: userID, FoodID: foodID, AcceptanceRate: 1}
	} else {
		next = *cur
	}
	next.EatCount++
	next.LastEaten = at
	next.UpdatedAt = at
	next.Score = blendScore(next.AcceptanceRate, recencyAccepted, next.EatCount)
	return &next
}

// OnFeedback implements ScoringPolicy.
func (BlendPolicy) OnFeedback(cur *models.FoodPreference, userID, foodID string, action models.FeedbackAction, at time.Time) *models.FoodPreference {
	next := countAction(cur, userID, foodID, action, at)
	recency := recencyOther
	if action == models.ActionAccepted {
		recency = recencyAccepted
	}
	next.Score = blendScore(next.AcceptanceRate, recency, next.EatCount)
	return next
}

func blendScore(rate, recency float64, eatCount int) float64 {
	frequency := min(float64(eatCount)/frequencySaturation, 1)
	return clamp01(rate*blendRateWeight + recency*blendRecencyWeight + frequency*blendFrequencyWeight)
}

// countAction copies cur, records action and recomputes the acceptance
// rate over accepts and rejects.
func countAction(cur *models.FoodPreference, userID, foodID string, action models.FeedbackAction, at time.Time) *models.FoodPreference {
	next := models.FoodPreference{UserID: userID, FoodID: foodID}
	if cur != nil {
		next = *cur
	}
	switch action {
	case models.ActionAccepted:
		next.AcceptCount++
	case models.ActionRejected:
		next.RejectCount++
	case models.ActionSaved:
		next.SaveCount++
	}
	if n := next.AcceptCount + next.RejectCount; n > 0 {
		next.AcceptanceRate = float64(next.AcceptCount) / float64(n)
	}
	next.UpdatedAt = at
	return &next
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
