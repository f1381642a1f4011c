// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/models"
)

// Type names a domain event.
type Type string

const (
	TypeFoodLogged             Type = "food.logged"
	TypeRecommendationShown    Type = "recommendation.shown"
	TypeRecommendationFeedback Type = "recommendation.feedback"
	TypeGoalAchieved           Type = "goal.achieved"
	TypeCyclePhaseChanged      Type = "cycle.phase_changed"
	TypeCycleStarted           Type = "cycle.started"
	TypeAchievementUnlocked    Type = "achievement.unlocked"

	// TypeAll subscribes to every event type.
	TypeAll Type = "*"
)

// Event is an immutable domain event. Handlers receive it by value.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Payload   any       `json:"payload"`
}

// New creates an event with a fresh id and the current time.
func New(t Type, userID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Payload:   payload,
	}
}

// FoodLogged is published when a user logs a food.
type FoodLogged struct {
	FoodID   string          `json:"food_id"`
	MealType models.MealType `json:"meal_type"`
	Servings float64         `json:"servings"`
	Date     time.Time       `json:"date"`
}

// RecommendationShown is published when suggestions are returned.
type RecommendationShown struct {
	TrackingIDs []string `json:"tracking_ids"`
	FoodIDs     []string `json:"food_ids"`
}

// RecommendationFeedback is published when a user acts on a suggestion.
type RecommendationFeedback struct {
	FoodID     string                `json:"food_id"`
	TrackingID string                `json:"tracking_id,omitempty"`
	Action     models.FeedbackAction `json:"action"`
	Reason     models.FeedbackReason `json:"reason,omitempty"`
}

// GoalAchieved is published when a day's nutrition score meets the goal.
type GoalAchieved struct {
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

// PhaseChanged is published when a user's derived phase changes.
type PhaseChanged struct {
	From cycle.Phase `json:"from"`
	To   cycle.Phase `json:"to"`
	Day  int         `json:"day"`
}

// CycleStarted is published when a new cycle record is created.
type CycleStarted struct {
	CycleID   string    `json:"cycle_id"`
	StartDate time.Time `json:"start_date"`
}

// AchievementUnlocked is published when a user earns an achievement.
type AchievementUnlocked struct {
	Achievement string `json:"achievement"`
	XP          int    `json:"xp"`
}

// PayloadAs returns the payload as T. Payloads published as *T are
// dereferenced.
func PayloadAs[T any](e Event) (T, bool) {
	switch p := e.Payload.(type) {
	case T:
		return p, true
	case *T:
		if p != nil {
			return *p, true
		}
	}
	var zero T
	return zero, false
}
