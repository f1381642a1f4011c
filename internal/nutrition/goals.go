// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package nutrition

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/lunara/internal/cycle"
)

// ActivityLevel is the user's habitual activity tier.
type ActivityLevel string

// Activity tiers.
const (
	ActivityUnknown          ActivityLevel = ""
	ActivitySedentary        ActivityLevel = "SEDENTARY"
	ActivityLightlyActive    ActivityLevel = "LIGHTLY_ACTIVE"
	ActivityModeratelyActive ActivityLevel = "MODERATELY_ACTIVE"
	ActivityVeryActive       ActivityLevel = "VERY_ACTIVE"
	ActivityExtremelyActive  ActivityLevel = "EXTREMELY_ACTIVE"
)

var activityAliases = map[string]ActivityLevel{
	"SEDENTARY":         ActivitySedentary,
	"LIGHT":             ActivityLightlyActive,
	"LIGHTLY_ACTIVE":    ActivityLightlyActive,
	"MODERATE":          ActivityModeratelyActive,
	"MODERATELY_ACTIVE": ActivityModeratelyActive,
	"ACTIVE":            ActivityVeryActive,
	"VERY_ACTIVE":       ActivityVeryActive,
	"EXTREMELY_ACTIVE":  ActivityExtremelyActive,
}

// ParseActivityLevel accepts canonical names and the short aliases
// LIGHT, MODERATE and ACTIVE in any case.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	if lvl, ok := activityAliases[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return lvl, nil
	}
	return ActivityUnknown, fmt.Errorf("unknown activity level %q", s)
}

// BaseCaloriesPerKg is the per-kilogram resting calorie constant.
const BaseCaloriesPerKg = 24.0

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtremelyActive:  1.9,
}

// ActivityMultiplier returns the calorie coefficient for lvl. Unknown
// levels use the moderately active tier.
func ActivityMultiplier(lvl ActivityLevel) float64 {
	if m, ok := activityMultipliers[lvl]; ok {
		return m
	}
	return activityMultipliers[ActivityModeratelyActive]
}

var phaseCalorieMultipliers = map[cycle.Phase]float64{
	cycle.PhaseMenstrual:   1.00,
	cycle.PhaseFollicular:  0.98,
	cycle.PhaseOvulation:   1.02,
	cycle.PhaseEarlyLuteal: 1.05,
	cycle.PhaseLateLuteal:  1.08,
}

// PhaseCalorieMultiplier returns the calorie coefficient for phase, or 1.0.
func PhaseCalorieMultiplier(phase cycle.Phase) float64 {
	if m, ok := phaseCalorieMultipliers[phase]; ok {
		return m
	}
	return 1.0
}

// macroRatio is grams per kilogram of body weight.
type macroRatio struct {
	protein, carbs, fat float64
}

var phaseMacros = map[cycle.Phase]macroRatio{
	cycle.PhaseMenstrual:   {protein: 1.2, carbs: 4.0, fat: 0.8},
	cycle.PhaseFollicular:  {protein: 1.0, carbs: 5.0, fat: 0.7},
	cycle.PhaseOvulation:   {protein: 1.1, carbs: 4.5, fat: 0.8},
	cycle.PhaseEarlyLuteal: {protein: 1.3, carbs: 3.5, fat: 1.0},
	cycle.PhaseLateLuteal:  {protein: 1.4, carbs: 3.0, fat: 1.2},
}

// Fiber grams per kilogram of body weight.
const fiberPerKg = 0.4

// Baseline daily micronutrient targets before phase scaling.
var microBaselines = map[Nutrient]float64{
	Iron:      15,
	Magnesium: 320,
	VitaminC:  75,
	Calcium:   1000,
	VitaminD:  2000,
	VitaminB6: 1.3,
}

var phaseMicroMultipliers = map[cycle.Phase]map[Nutrient]float64{
	cycle.PhaseMenstrual:   {Iron: 1.5, VitaminC: 1.2, Magnesium: 1.1},
	cycle.PhaseFollicular:  {Iron: 1.0, VitaminC: 1.0, Magnesium: 1.0},
	cycle.PhaseOvulation:   {Iron: 1.0, VitaminC: 1.0, Magnesium: 1.0},
	cycle.PhaseEarlyLuteal: {Iron: 1.1, VitaminC: 1.0, Magnesium: 1.2},
	cycle.PhaseLateLuteal:  {Iron: 1.2, VitaminC: 1.1, Magnesium: 1.3, Calcium: 1.2, VitaminB6: 1.3},
}

// MicroMultiplier returns the phase multiplier for n, or 1.0 when the
// table has no entry.
func MicroMultiplier(phase cycle.Phase, n Nutrient) float64 {
	if m, ok := phaseMicroMultipliers[phase][n]; ok {
		return m
	}
	return 1.0
}

// Calculator derives daily nutrient targets. It is stateless and safe for
// concurrent use.
type Calculator struct{}

// NewCalculator creates a goal calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Goals computes the daily targets for a body weight, activity tier and
// cycle phase. Calories and macros are whole units; vitamin B6 keeps one
// decimal place.
func (c *Calculator) Goals(weightKg float64, activity ActivityLevel, phase cycle.Phase) Amounts {
	var g Amounts

	calories := weightKg * BaseCaloriesPerKg * ActivityMultiplier(activity) * PhaseCalorieMultiplier(phase)
	g.Set(Calories, math.Round(calories))

	macros, ok := phaseMacros[phase]
	if !ok {
		macros = phaseMacros[cycle.PhaseFollicular]
	}
	g.Set(Protein, math.Round(weightKg*macros.protein))
	g.Set(Carbs, math.Round(weightKg*macros.carbs))
	g.Set(Fat, math.Round(weightKg*macros.fat))
	g.Set(Fiber, math.Round(weightKg*fiberPerKg))

	for n, base := range microBaselines {
		v := base * MicroMultiplier(phase, n)
		if n == VitaminB6 {
			g.Set(n, math.Round(v*10)/10)
			continue
		}
		g.Set(n, math.Round(v))
	}

	return g
}
