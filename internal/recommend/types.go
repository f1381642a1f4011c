// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package recommend

import (
	"context"
	"slices"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
)

// Strategy is an independent, pluggable source of suggestions.
type Strategy interface {
	// Name identifies the strategy in logs, metrics and suggestions.
	Name() string

	// Priority is the static ranking weight used to order strategies.
	Priority() int

	// Supports reports whether the strategy applies to the context.
	Supports(rc *Context) bool

	// Recommend proposes suggestions from the candidate foods. It must not
	// modify rc or foods.
	Recommend(ctx context.Context, rc *Context, foods []models.Food) ([]Suggestion, error)
}

// Reranker reorders the ranked suggestions before they are truncated.
type Reranker interface {
	Name() string

	// Rerank returns at most k suggestions chosen from ranked, which is
	// ordered by priority descending. It must not modify ranked.
	Rerank(ctx context.Context, ranked []Suggestion, k int) []Suggestion
}

// Context is the read-only input shared by all strategies of one run.
type Context struct {
	Profile     *models.UserProfile
	Phase       cycle.Phase
	DayInCycle  int
	Goals       nutrition.Amounts
	Actuals     nutrition.Amounts
	Deficient   []nutrition.Nutrient
	Preferences []models.FoodPreference
}

// IsDeficient reports whether n is in the deficient list.
func (c *Context) IsDeficient(n nutrition.Nutrient) bool {
	return slices.Contains(c.Deficient, n)
}

// IsVegetarian reports whether the profile is vegetarian or vegan.
func (c *Context) IsVegetarian() bool {
	return c.Profile != nil && c.Profile.IsVegetarian()
}

// Suggestion is one recommended food. Suggestions are never persisted.
type Suggestion struct {
	Food        models.Food `json:"food"`
	Reason      string      `json:"reason"`
	Explanation string      `json:"explanation"`
	Priority    float64     `json:"priority"`
	TrackingID  string      `json:"tracking_id"`
	Strategy    string      `json:"strategy"`
}

// Stats reports engine activity since construction.
type Stats struct {
	Requests    int64           `json:"requests"`
	Failures    int64           `json:"failures"`
	Suggestions int64           `json:"suggestions"`
	Strategies  []StrategyStats `json:"strategies"`
}

// StrategyStats describes one registered strategy.
type StrategyStats struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Breaker  string `json:"breaker"`
}
