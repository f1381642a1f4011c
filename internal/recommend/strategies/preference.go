// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package strategies

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/recommend"
)

const (
	preferenceMinAcceptance = 0.3
	preferenceTopN          = 5
	preferenceBasePriority  = 90
	preferenceScoreWeight   = 5
)

// Preference resurfaces foods the user has responded well to. A perfect
// score reaches priority 95 and can outrank iron suggestions.
type Preference struct{}

// NewPreference creates the personal preference strategy.
func NewPreference() *Preference { return &Preference{} }

func (*Preference) Name() string  { return NamePreference }
func (*Preference) Priority() int { return preferenceBasePriority }

// Supports reports whether the user has any preference history.
func (*Preference) Supports(rc *recommend.Context) bool {
	return len(rc.Preferences) > 0
}

func (*Preference) Recommend(_ context.Context, rc *recommend.Context, foods []models.Food) ([]recommend.Suggestion, error) {
	liked := make([]models.FoodPreference, 0, len(rc.Preferences))
	for _, p := range rc.Preferences {
		if p.AcceptanceRate >= preferenceMinAcceptance {
			liked = append(liked, p)
		}
	}
	slices.SortStableFunc(liked, func(a, b models.FoodPreference) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(liked) > preferenceTopN {
		liked = liked[:preferenceTopN]
	}

	byID := make(map[string]int, len(foods))
	for i := range foods {
		byID[foods[i].ID] = i
	}

	out := make([]recommend.Suggestion, 0, len(liked))
	for _, p := range liked {
		i, ok := byID[p.FoodID]
		if !ok {
			continue
		}
		food := foods[i]
		out = append(out, newSuggestion(food, NamePreference,
			preferenceBasePriority+p.Score*preferenceScoreWeight,
			fmt.Sprintf("You love this (%d%% acceptance)", int(math.Round(p.AcceptanceRate*100))),
			fmt.Sprintf("You have accepted %s %d times and eaten it %d times.", food.Name, p.AcceptCount, p.EatCount)))
	}
	return out, nil
}
