// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
	"github.com/tomtom215/lunara/internal/validation"
)

// Food search limits.
const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// LogFoodInput is the request to log a food portion.
type LogFoodInput struct {
	FoodID   string          `json:"food_id" validate:"required"`
	MealType models.MealType `json:"meal_type" validate:"required,meal_type"`
	Servings float64         `json:"servings" validate:"required,gt=0,lte=20"`
	// Date is a calendar day (YYYY-MM-DD). Empty means today.
	Date string `json:"date,omitempty" validate:"omitempty,calendar_date"`
}

// LogFood stores a food log and publishes food.logged. The publish is
// synchronous so preferences and stats reflect the log on return.
func (s *Service) LogFood(ctx context.Context, userID string, in LogFoodInput) (*models.FoodLog, error) {
	in.MealType = models.MealType(strings.ToUpper(string(in.MealType)))
	if err := validate(in); err != nil {
		return nil, err
	}
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.Foods.GetFood(ctx, in.FoodID); err != nil {
		return nil, translate(err, "food %s", in.FoodID)
	}

	date := s.now().UTC()
	if in.Date != "" {
		// Validated above.
		day, _ := time.Parse(validation.DateLayout, in.Date)
		date = day
	}

	log := &models.FoodLog{
		ID:       uuid.NewString(),
		UserID:   userID,
		FoodID:   in.FoodID,
		MealType: in.MealType,
		Servings: in.Servings,
		Date:     date,
	}
	if err := s.Logs.CreateLog(ctx, log); err != nil {
		return nil, fmt.Errorf("create log: %w", err)
	}

	e := events.New(events.TypeFoodLogged, userID, events.FoodLogged{
		FoodID:   log.FoodID,
		MealType: log.MealType,
		Servings: log.Servings,
		Date:     log.Date,
	})
	e.Timestamp = date
	s.publish(ctx, e)

	s.logger.Debug().
		Str("user_id", userID).
		Str("food_id", log.FoodID).
		Str("meal_type", string(log.MealType)).
		Float64("servings", log.Servings).
		Msg("Food logged")

	return log, nil
}

// DailySummary is the nutrition analysis of one calendar day.
type DailySummary struct {
	Date         time.Time              `json:"date"`
	Phase        *cycle.Phase           `json:"phase,omitempty"`
	Goals        nutrition.Amounts      `json:"goals"`
	Actuals      nutrition.Amounts      `json:"actuals"`
	Deficiencies []nutrition.Deficiency `json:"deficiencies"`
	Score        int                    `json:"score"`
	GoalsMet     bool                   `json:"goals_met"`
	LogCount     int                    `json:"log_count"`
}

// DailySummary analyses the user's intake on day against phase-aware goals.
// It requires cycle data. When the day meets the goals goal.achieved is
// published once per user and day.
func (s *Service) DailySummary(ctx context.Context, userID string, day time.Time) (*DailySummary, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec, err := s.latestCycle(ctx, userID)
	if err != nil {
		return nil, err
	}

	day = cycle.Day(day)
	phase := cycle.CurrentPhase(rec, day)
	weight, activity := bodyMetrics(u)
	goals := s.calculator.Goals(weight, activity, phase)

	actuals, count, err := s.actuals(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	th := nutrition.DefaultThresholds()
	th.Warning = nutrition.OptimalThreshold(u.ActivityLevel, u.Age, len(u.HealthConditions) > 0)

	score := nutrition.Score(goals, actuals)
	summary := &DailySummary{
		Date:         day,
		Phase:        &phase,
		Goals:        goals,
		Actuals:      actuals,
		Deficiencies: nutrition.DetectDeficiencies(goals, actuals, th),
		Score:        score,
		GoalsMet:     nutrition.GoalsMet(score),
		LogCount:     count,
	}
	if summary.Deficiencies == nil {
		summary.Deficiencies = []nutrition.Deficiency{}
	}

	if summary.GoalsMet && s.markGoalsAnnounced(userID, day) {
		s.publish(ctx, events.New(events.TypeGoalAchieved, userID, events.GoalAchieved{
			Score: score,
			Date:  day,
		}))
	}
	return summary, nil
}

// markGoalsAnnounced reports whether this is the first announcement for
// the user and day.
func (s *Service) markGoalsAnnounced(userID string, day time.Time) bool {
	return !s.goalsAnnounced.IsDuplicate(userID + "|" + day.Format(validation.DateLayout))
}

// SearchFoods searches the catalog. An empty query lists the newest foods.
func (s *Service) SearchFoods(ctx context.Context, query string, limit int) ([]models.Food, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	var (
		foods []models.Food
		err   error
	)
	if q := strings.TrimSpace(query); q == "" {
		foods, err = s.Foods.RecentFoods(ctx, limit)
	} else {
		foods, err = s.Foods.SearchFoods(ctx, q, limit)
	}
	if err != nil {
		return nil, translate(err, "search foods")
	}
	if foods == nil {
		foods = []models.Food{}
	}
	return foods, nil
}
