// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package models

import (
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/lunara/internal/nutrition"
)

// UserProfile holds the body metrics and dietary settings of a user.
type UserProfile struct {
	// ID uniquely identifies the user
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// WeightKg is body weight in kilograms (0 when unknown)
	WeightKg float64 `json:"weight_kg"`

	// HeightCm is height in centimetres (0 when unknown)
	HeightCm float64 `json:"height_cm"`

	// Age in years (0 when unknown)
	Age int `json:"age"`

	// ActivityLevel is the habitual activity tier
	ActivityLevel nutrition.ActivityLevel `json:"activity_level"`

	// DietaryRestrictions such as "vegetarian" or "vegan"
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`

	// Allergies lists allergens to avoid
	Allergies []string `json:"allergies,omitempty"`

	// HealthConditions lists conditions that tighten deficiency thresholds
	HealthConditions []string `json:"health_conditions,omitempty"`

	// CreatedAt is when the profile was created
	CreatedAt time.Time `json:"created_at"`
}

// HasRestriction reports whether the profile lists restriction.
func (p *UserProfile) HasRestriction(restriction string) bool {
	for _, r := range p.DietaryRestrictions {
		if strings.EqualFold(r, restriction) {
			return true
		}
	}
	return false
}

// IsVegetarian reports whether the user eats a vegetarian or vegan diet.
func (p *UserProfile) IsVegetarian() bool {
	return p.HasRestriction("vegetarian") || p.HasRestriction("vegan")
}

// MissingFields lists profile fields required for goal calculation.
func (p *UserProfile) MissingFields() []string {
	var missing []string
	if p.WeightKg <= 0 {
		missing = append(missing, "weight")
	}
	if p.HeightCm <= 0 {
		missing = append(missing, "height")
	}
	if p.ActivityLevel == nutrition.ActivityUnknown {
		missing = append(missing, "activity level")
	}
	return missing
}

// Food is a catalog entry with a per-100g nutrient profile.
type Food struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Category  string            `json:"category"`
	Nutrients nutrition.Amounts `json:"nutrients"`
	Allergens []string          `json:"allergens,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// MealType is the meal a food log belongs to.
type MealType string

// Meal types.
const (
	MealBreakfast MealType = "BREAKFAST"
	MealLunch     MealType = "LUNCH"
	MealDinner    MealType = "DINNER"
	MealSnack     MealType = "SNACK"
)

// FoodLog is one logged portion of a food.
type FoodLog struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	FoodID   string    `json:"food_id"`
	MealType MealType  `json:"meal_type"`
	Servings float64   `json:"servings"`
	Date     time.Time `json:"date"`
}

// FoodPreference is the learned preference of one user for one food.
// Only the feedback loop mutates it.
type FoodPreference struct {
	UserID         string    `json:"user_id"`
	FoodID         string    `json:"food_id"`
	AcceptCount    int       `json:"accept_count"`
	RejectCount    int       `json:"reject_count"`
	SaveCount      int       `json:"save_count"`
	EatCount       int       `json:"eat_count"`
	AcceptanceRate float64   `json:"acceptance_rate"`
	Score          float64   `json:"score"`
	LastEaten      time.Time `json:"last_eaten,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FeedbackAction is the user's response to a suggestion.
type FeedbackAction string

// Feedback actions.
const (
	ActionAccepted FeedbackAction = "ACCEPTED"
	ActionRejected FeedbackAction = "REJECTED"
	ActionSaved    FeedbackAction = "SAVED"
)

// Valid reports whether a is a known action.
func (a FeedbackAction) Valid() bool {
	return a == ActionAccepted || a == ActionRejected || a == ActionSaved
}

// FeedbackReason explains a rejection.
type FeedbackReason string

// Feedback reasons.
const (
	ReasonDontLikeTaste FeedbackReason = "dont_like_taste"
	ReasonTooExpensive  FeedbackReason = "too_expensive"
	ReasonNotAvailable  FeedbackReason = "not_available"
	ReasonAllergic      FeedbackReason = "allergic"
	ReasonTooComplex    FeedbackReason = "too_complex"
	ReasonAlreadyAte    FeedbackReason = "already_ate"
	ReasonOther         FeedbackReason = "other"
)

// Valid reports whether r is a known reason.
func (r FeedbackReason) Valid() bool {
	switch r {
	case ReasonDontLikeTaste, ReasonTooExpensive, ReasonNotAvailable,
		ReasonAllergic, ReasonTooComplex, ReasonAlreadyAte, ReasonOther:
		return true
	}
	return false
}

// FeedbackRecord is an append-only record of a feedback action.
type FeedbackRecord struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	FoodID     string         `json:"food_id"`
	TrackingID string         `json:"tracking_id"`
	Action     FeedbackAction `json:"action"`
	Reason     FeedbackReason `json:"reason,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// UserStats aggregates logging activity for gamification.
type UserStats struct {
	UserID        string    `json:"user_id"`
	TotalLogs     int       `json:"total_logs"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	TotalXP       int       `json:"total_xp"`
	Level         int       `json:"level"`
	LastLogDate   time.Time `json:"last_log_date,omitempty"`
	Achievements  []string  `json:"achievements,omitempty"`
}

// HasAchievement reports whether code was already awarded.
func (s *UserStats) HasAchievement(code string) bool {
	return slices.Contains(s.Achievements, code)
}
