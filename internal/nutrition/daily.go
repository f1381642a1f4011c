// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package nutrition

import (
	"math"
	"sort"
)

// DeficiencyLevel grades how far an actual intake is from its goal.
type DeficiencyLevel string

// Deficiency levels, most severe first.
const (
	LevelSevere   DeficiencyLevel = "SEVERE"
	LevelModerate DeficiencyLevel = "MODERATE"
	LevelMild     DeficiencyLevel = "MILD"
	LevelExcess   DeficiencyLevel = "EXCESS"
)

func (l DeficiencyLevel) rank() int {
	switch l {
	case LevelSevere:
		return 0
	case LevelModerate:
		return 1
	case LevelMild:
		return 2
	default:
		return 3
	}
}

// Thresholds configures deficiency grading. Ratios are actual/goal.
type Thresholds struct {
	// Severe marks a SEVERE deficiency below this ratio. Default: 0.5
	Severe float64
	// Warning marks a MODERATE deficiency below this ratio. Default: 0.7
	Warning float64
	// Mild marks a MILD deficiency below this ratio. Default: 0.9
	Mild float64
	// Excess marks intake above this ratio. Default: 1.5
	Excess float64
}

// DeficiencyWarningRatio is the default actual/goal ratio below which a
// nutrient counts as deficient.
const DeficiencyWarningRatio = 0.7

// DefaultThresholds returns the standard grading thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Severe: 0.5, Warning: DeficiencyWarningRatio, Mild: 0.9, Excess: 1.5}
}

// Deficiency describes one nutrient outside its target band.
type Deficiency struct {
	Nutrient   Nutrient        `json:"-"`
	Name       string          `json:"nutrient"`
	Unit       string          `json:"unit"`
	Goal       float64         `json:"goal"`
	Actual     float64         `json:"actual"`
	Percentage float64         `json:"percentage"`
	Level      DeficiencyLevel `json:"level"`
}

// DetectDeficiencies grades every nutrient with a non-zero goal and returns
// those outside the target band, most severe first.
func DetectDeficiencies(goals, actuals Amounts, th Thresholds) []Deficiency {
	var out []Deficiency
	for _, n := range AllNutrients() {
		goal := goals[n]
		if goal <= 0 {
			continue
		}
		ratio := actuals[n] / goal

		var level DeficiencyLevel
		switch {
		case ratio < th.Severe:
			level = LevelSevere
		case ratio < th.Warning:
			level = LevelModerate
		case ratio < th.Mild:
			level = LevelMild
		case ratio > th.Excess:
			level = LevelExcess
		default:
			continue
		}

		out = append(out, Deficiency{
			Nutrient:   n,
			Name:       n.String(),
			Unit:       n.Unit(),
			Goal:       goal,
			Actual:     actuals[n],
			Percentage: math.Round(ratio * 100),
			Level:      level,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Level.rank() < out[j].Level.rank()
	})
	return out
}

// MostDeficient returns up to limit SEVERE or MODERATE entries.
func MostDeficient(defs []Deficiency, limit int) []Deficiency {
	out := make([]Deficiency, 0, limit)
	for _, d := range defs {
		if len(out) == limit {
			break
		}
		if d.Level == LevelSevere || d.Level == LevelModerate {
			out = append(out, d)
		}
	}
	return out
}

// DeficientNutrients lists nutrients whose actual/goal ratio is below ratio.
func DeficientNutrients(goals, actuals Amounts, ratio float64) []Nutrient {
	var out []Nutrient
	for _, n := range AllNutrients() {
		if goals[n] > 0 && actuals[n]/goals[n] < ratio {
			out = append(out, n)
		}
	}
	return out
}

// nutrientScore scores a single actual/goal ratio on a 0-100 scale.
func nutrientScore(p float64) float64 {
	switch {
	case p >= 0.9 && p <= 1.1:
		return 100
	case p >= 0.7 && p < 0.9:
		return 70 + (p-0.7)/0.2*30
	case p > 1.1 && p <= 1.5:
		return 100 - (p-1.1)/0.4*30
	case p < 0.7:
		return p / 0.7 * 70
	default:
		return 40
	}
}

// Score rates a day's intake against its goals on a 0-100 scale. Only
// nutrients with a positive goal contribute.
func Score(goals, actuals Amounts) int {
	var total float64
	var count int
	for _, n := range AllNutrients() {
		if goals[n] <= 0 {
			continue
		}
		total += nutrientScore(actuals[n] / goals[n])
		count++
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(total / float64(count)))
}

// GoalsMetScore is the minimum daily score considered on target.
const GoalsMetScore = 80

// GoalsMet reports whether score meets the daily target.
func GoalsMet(score int) bool {
	return score >= GoalsMetScore
}

// OptimalThreshold picks the deficiency warning ratio for a user. Highly
// active users, users over 50 and users with health conditions get a
// stricter threshold.
func OptimalThreshold(activity ActivityLevel, age int, hasHealthConditions bool) float64 {
	switch {
	case activity == ActivityVeryActive || activity == ActivityExtremelyActive:
		return 0.75
	case hasHealthConditions:
		return 0.8
	case age > 50:
		return 0.75
	default:
		return DeficiencyWarningRatio
	}
}

// Portion is a logged amount of a food with a per-100g nutrient profile.
// Servings are expressed in 100g units.
type Portion struct {
	Profile  Amounts
	Servings float64
}

// Aggregate sums portions into daily actuals.
func Aggregate(portions []Portion) Amounts {
	var total Amounts
	for _, p := range portions {
		total = total.Add(p.Profile, p.Servings)
	}
	return total
}
