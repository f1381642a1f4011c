// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

// Package strategies holds the built-in recommendation strategies.
package strategies

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
	"github.com/tomtom215/lunara/internal/recommend"
)

// Strategy names.
const (
	NameIron       = "iron_deficiency"
	NameProtein    = "protein_deficiency"
	NameCycleAware = "cycle_aware"
	NamePreference = "personal_preference"
)

// topBy returns up to n foods whose amount of nutrient exceeds min, highest
// first. Ties keep catalog order.
func topBy(foods []models.Food, nutrient nutrition.Nutrient, minAmount float64, n int) []models.Food {
	matches := make([]models.Food, 0, len(foods))
	for i := range foods {
		if foods[i].Nutrients.Get(nutrient) > minAmount {
			matches = append(matches, foods[i])
		}
	}
	slices.SortStableFunc(matches, func(a, b models.Food) int {
		return cmp.Compare(b.Nutrients.Get(nutrient), a.Nutrients.Get(nutrient))
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

func newSuggestion(food models.Food, name string, priority float64, reason, explanation string) recommend.Suggestion {
	return recommend.Suggestion{
		Food:        food,
		Reason:      reason,
		Explanation: explanation,
		Priority:    priority,
		TrackingID:  uuid.NewString(),
		Strategy:    name,
	}
}

// New builds the named strategy. deficiencyRatio applies to the protein
// strategy. ok is false for unknown names.
func New(name string, deficiencyRatio float64) (recommend.Strategy, bool) {
	switch name {
	case NameIron:
		return NewIron(), true
	case NameProtein:
		return NewProtein(deficiencyRatio), true
	case NameCycleAware:
		return NewCycleAware(), true
	case NamePreference:
		return NewPreference(), true
	}
	return nil, false
}
