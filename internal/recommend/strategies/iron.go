// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package strategies

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
	"github.com/tomtom215/lunara/internal/recommend"
)

const (
	ironMinPerServing    = 2.0
	ironTopN             = 3
	ironMenstrualPrio    = 95
	ironDefaultPrio      = 80
	ironFallbackGoalMg   = 18
	ironStrategyPriority = 100
)

// Iron suggests iron-rich foods when iron intake is deficient.
type Iron struct{}

// NewIron creates the iron deficiency strategy.
func NewIron() *Iron { return &Iron{} }

func (*Iron) Name() string  { return NameIron }
func (*Iron) Priority() int { return ironStrategyPriority }

// Supports reports whether iron is deficient.
func (*Iron) Supports(rc *recommend.Context) bool {
	return rc.IsDeficient(nutrition.Iron)
}

// Recommend returns the three most iron-dense foods above 2mg per 100g.
// Suggestions rank higher during menstruation.
func (s *Iron) Recommend(_ context.Context, rc *recommend.Context, foods []models.Food) ([]recommend.Suggestion, error) {
	priority := float64(ironDefaultPrio)
	if rc.Phase == cycle.PhaseMenstrual {
		priority = ironMenstrualPrio
	}

	goal := rc.Goals.Get(nutrition.Iron)
	if goal == 0 {
		goal = ironFallbackGoalMg
	}
	gap := max(goal-rc.Actuals.Get(nutrition.Iron), 0)

	picks := topBy(foods, nutrition.Iron, ironMinPerServing, ironTopN)
	out := make([]recommend.Suggestion, 0, len(picks))
	for _, food := range picks {
		iron := food.Nutrients.Get(nutrition.Iron)
		out = append(out, newSuggestion(food, NameIron, priority,
			fmt.Sprintf("High in iron (%.1fmg per 100g)", iron),
			s.explain(rc, food.Name, iron, gap)))
	}
	return out, nil
}

func (*Iron) explain(rc *recommend.Context, foodName string, iron, gap float64) string {
	var b strings.Builder
	if rc.Phase == cycle.PhaseMenstrual {
		fmt.Fprintf(&b, "You are on day %d of your period, and your body is actively losing iron. ", rc.DayInCycle)
	}
	fmt.Fprintf(&b, "%s contains %.1fmg of iron per 100g. ", foodName, iron)
	if rc.IsVegetarian() {
		b.WriteString("As a vegetarian, this is an excellent plant-based iron source. " +
			"Pair it with vitamin C to boost non-heme iron absorption. ")
	} else {
		b.WriteString("Heme iron from animal sources is absorbed most efficiently. ")
	}
	fmt.Fprintf(&b, "You still need %.1fmg of iron today to meet your target.", gap)
	return b.String()
}
