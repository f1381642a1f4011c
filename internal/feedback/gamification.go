// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package feedback

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/store"
)

// Achievement codes
const (
	AchievementFirstLog  = "FIRST_LOG"
	streakAchievementFmt = "STREAK_%d"
)

// XP awards
const (
	xpFirstLog     = 10
	xpPerLog       = 5
	xpPerStreakDay = 10
	xpPerLevel     = 100
)

// StreakMilestones are the streak lengths that unlock an achievement.
var StreakMilestones = []int{3, 7, 14, 30, 60, 90, 180, 365}

// Publisher publishes domain events. *events.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, e events.Event)
}

// GamificationHandler maintains streaks, XP and achievements.
type GamificationHandler struct {
	stats     store.StatsStore
	publisher Publisher
	logger    zerolog.Logger
}

// NewGamificationHandler creates the handler. publisher may be nil, in
// which case achievements are recorded but not announced.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGamificationHandler(stats store.StatsStore, publisher Publisher, logger zerolog.Logger) *GamificationHandler {
	return &GamificationHandler{
		stats:     stats,
		publisher: publisher,
		logger:    logger.With().Str("component", "gamification").Logger(),
	}
}

// RecordLog applies one food log at time at and returns the updated stats
// with the achievements it unlocked.
func (g *GamificationHandler) RecordLog(ctx context.Context, userID string, at time.Time) (*models.UserStats, []events.AchievementUnlocked, error) {
	var unlocked []events.AchievementUnlocked

	st, err := g.stats.UpdateStats(ctx, userID, func(st *models.UserStats) error {
		// The store may run fn again; start from a clean slate each time.
		unlocked = unlocked[:0]
		unlocked = applyLog(st, at, unlocked)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("update stats for %s: %w", userID, err)
	}
	return st, unlocked, nil
}

// applyLog mutates st for one log and appends unlocked achievements.
func applyLog(st *models.UserStats, at time.Time, unlocked []events.AchievementUnlocked) []events.AchievementUnlocked {
	today := cycle.Day(at)
	switch {
	case st.LastLogDate.IsZero():
		st.CurrentStreak = 1
	case cycle.Day(st.LastLogDate).Equal(today.AddDate(0, 0, -1)):
		st.CurrentStreak++
	case !today.After(cycle.Day(st.LastLogDate)):
		// Same day or back-dated: streak unchanged.
	default:
		st.CurrentStreak = 1
	}
	st.LongestStreak = max(st.LongestStreak, st.CurrentStreak)

	if st.TotalLogs == 0 {
		st.TotalXP += xpFirstLog
		if !st.HasAchievement(AchievementFirstLog) {
			st.Achievements = append(st.Achievements, AchievementFirstLog)
			unlocked = append(unlocked, events.AchievementUnlocked{Achievement: AchievementFirstLog, XP: xpFirstLog})
		}
	} else {
		st.TotalXP += xpPerLog
	}
	st.TotalLogs++

	if slices.Contains(StreakMilestones, st.CurrentStreak) {
		code := fmt.Sprintf(streakAchievementFmt, st.CurrentStreak)
		if !st.HasAchievement(code) {
			xp := st.CurrentStreak * xpPerStreakDay
			st.TotalXP += xp
			st.Achievements = append(st.Achievements, code)
			unlocked = append(unlocked, events.AchievementUnlocked{Achievement: code, XP: xp})
		}
	}

	st.Level = st.TotalXP/xpPerLevel + 1
	if at.After(st.LastLogDate) {
		st.LastLogDate = at
	}
	return unlocked
}

// HandleFoodLogged is the food.logged event handler.
func (g *GamificationHandler) HandleFoodLogged(ctx context.Context, e events.Event) error {
	st, unlocked, err := g.RecordLog(ctx, e.UserID, e.Timestamp)
	if err != nil {
		return err
	}

	g.logger.Debug().
		Str("user_id", e.UserID).
		Int("streak", st.CurrentStreak).
		Int("xp", st.TotalXP).
		Int("level", st.Level).
		Msg("Stats updated")

	for _, a := range unlocked {
		g.logger.Info().
			Str("user_id", e.UserID).
			Str("achievement", a.Achievement).
			Int("xp", a.XP).
			Msg("Achievement unlocked")
		if g.publisher != nil {
			g.publisher.Publish(ctx, events.New(events.TypeAchievementUnlocked, e.UserID, a))
		}
	}
	return nil
}
