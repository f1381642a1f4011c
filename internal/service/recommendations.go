// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/edgecase"
	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
	"github.com/tomtom215/lunara/internal/recommend"
)

// MessageAddCycleData is returned with an empty result when the user has no
// cycle records.
const MessageAddCycleData = "Add your menstrual cycle data to get personalized recommendations"

// RecommendationResult is the response of GetRecommendations.
type RecommendationResult struct {
	Suggestions      []recommend.Suggestion `json:"recommendations"`
	Warnings         []edgecase.Warning     `json:"warnings"`
	Message          string                 `json:"message,omitempty"`
	DataInsufficient bool                   `json:"data_insufficient"`

	Phase      *cycle.Phase       `json:"phase,omitempty"`
	DayInCycle int                `json:"day_in_cycle,omitempty"`
	Goals      *nutrition.Amounts `json:"goals,omitempty"`
	Actuals    *nutrition.Amounts `json:"actuals,omitempty"`
	Deficient  []string           `json:"deficient_nutrients,omitempty"`
}

// GetRecommendations runs the edge case checks and, when cycle data exists,
// the recommendation engine for today. A user without cycle data gets an
// empty result with DataInsufficient set, not an error.
func (s *Service) GetRecommendations(ctx context.Context, userID string) (*RecommendationResult, error) {
	now := s.now()

	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	warnings, err := s.Detector.CheckAll(ctx, userID, now)
	if err != nil {
		return nil, translate(err, "edge cases for %s", userID)
	}

	rec, err := s.latestCycle(ctx, userID)
	if errors.Is(err, ErrDataInsufficient) {
		return &RecommendationResult{
			Suggestions:      []recommend.Suggestion{},
			Warnings:         warnings,
			Message:          MessageAddCycleData,
			DataInsufficient: true,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	phase := cycle.CurrentPhase(rec, now)
	day := cycle.DayInCycle(rec, now)
	weight, activity := bodyMetrics(u)
	goals := s.calculator.Goals(weight, activity, phase)

	actuals, _, err := s.actuals(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	deficient := nutrition.DeficientNutrients(goals, actuals, s.config.DeficiencyRatio)

	prefs, err := s.Preferences.PreferencesForUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "preferences for %s", userID)
	}

	candidates, err := s.candidates(ctx, u)
	if err != nil {
		return nil, err
	}

	rc := &recommend.Context{
		Profile:     u,
		Phase:       phase,
		DayInCycle:  day,
		Goals:       goals,
		Actuals:     actuals,
		Deficient:   deficient,
		Preferences: prefs,
	}
	suggestions, err := s.Engine.Generate(ctx, rc, candidates)
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	if len(suggestions) > 0 {
		shown := events.RecommendationShown{
			TrackingIDs: make([]string, len(suggestions)),
			FoodIDs:     make([]string, len(suggestions)),
		}
		for i := range suggestions {
			shown.TrackingIDs[i] = suggestions[i].TrackingID
			shown.FoodIDs[i] = suggestions[i].Food.ID
		}
		s.publishAsync(ctx, events.New(events.TypeRecommendationShown, userID, shown))
	}

	names := make([]string, len(deficient))
	for i, n := range deficient {
		names[i] = n.String()
	}

	s.logger.Debug().
		Str("user_id", userID).
		Str("phase", phase.String()).
		Int("day_in_cycle", day).
		Strs("deficient", names).
		Int("suggestions", len(suggestions)).
		Msg("Recommendations generated")

	return &RecommendationResult{
		Suggestions: suggestions,
		Warnings:    warnings,
		Phase:       &phase,
		DayInCycle:  day,
		Goals:       &goals,
		Actuals:     &actuals,
		Deficient:   names,
	}, nil
}

// candidates returns the newest catalog foods minus foods the user keeps
// rejecting and foods containing one of their allergens.
func (s *Service) candidates(ctx context.Context, u *models.UserProfile) ([]models.Food, error) {
	foods, err := s.Foods.RecentFoods(ctx, s.config.CandidateLimit)
	if err != nil {
		return nil, translate(err, "candidate foods")
	}

	var avoid []string
	if s.Analyzer != nil {
		avoid, err = s.Analyzer.FoodsToAvoid(ctx, u.ID)
		if err != nil {
			// Filtering is best effort.
			s.logger.Warn().Err(err).Str("user_id", u.ID).Msg("Failed to load foods to avoid")
		}
	}
	if len(avoid) == 0 && len(u.Allergies) == 0 {
		return foods, nil
	}

	out := make([]models.Food, 0, len(foods))
	for i := range foods {
		if slices.Contains(avoid, foods[i].ID) || hasAllergen(&foods[i], u.Allergies) {
			continue
		}
		out = append(out, foods[i])
	}
	return out, nil
}

func hasAllergen(f *models.Food, allergies []string) bool {
	for _, a := range f.Allergens {
		for _, b := range allergies {
			if strings.EqualFold(a, b) {
				return true
			}
		}
	}
	return false
}
