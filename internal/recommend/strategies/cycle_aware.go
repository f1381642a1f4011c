// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package strategies

import (
	"context"
	"fmt"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
	"github.com/tomtom215/lunara/internal/recommend"
)

const (
	cycleFocusMin = 10.0
	cycleTopN     = 2
	cyclePriority = 70
)

// CycleAware always applies. It picks foods rich in the phase's focus macro.
type CycleAware struct{}

// NewCycleAware creates the cycle-aware strategy.
func NewCycleAware() *CycleAware { return &CycleAware{} }

func (*CycleAware) Name() string                     { return NameCycleAware }
func (*CycleAware) Priority() int                    { return cyclePriority }
func (*CycleAware) Supports(*recommend.Context) bool { return true }

// FocusNutrient is carbs in the follicular phase and protein otherwise.
func FocusNutrient(p cycle.Phase) nutrition.Nutrient {
	if p == cycle.PhaseFollicular {
		return nutrition.Carbs
	}
	return nutrition.Protein
}

func (*CycleAware) Recommend(_ context.Context, rc *recommend.Context, foods []models.Food) ([]recommend.Suggestion, error) {
	reason := fmt.Sprintf("Optimized for %s phase", rc.Phase.DisplayName())
	advice := cycle.Advice(rc.Phase)

	picks := topBy(foods, FocusNutrient(rc.Phase), cycleFocusMin, cycleTopN)
	out := make([]recommend.Suggestion, 0, len(picks))
	for _, food := range picks {
		out = append(out, newSuggestion(food, NameCycleAware, cyclePriority, reason, advice))
	}
	return out, nil
}
