// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package feedback

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/lunara/internal/cache"
	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/metrics"
	"github.com/tomtom215/lunara/internal/store"
)

// NotificationListener turns domain events into user notifications.
type NotificationListener struct {
	sink   store.NotificationSink
	logger zerolog.Logger
}

// NewNotificationListener creates a listener that delivers to sink.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewNotificationListener(sink store.NotificationSink, logger zerolog.Logger) *NotificationListener {
	return &NotificationListener{
		sink:   sink,
		logger: logger.With().Str("component", "notifications").Logger(),
	}
}

// HandleAchievement is the achievement.unlocked event handler.
func (n *NotificationListener) HandleAchievement(ctx context.Context, e events.Event) error {
	a, ok := events.PayloadAs[events.AchievementUnlocked](e)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Type)
	}
	body := fmt.Sprintf("You earned %s (+%d XP)", achievementName(a.Achievement), a.XP)
	return n.sink.Notify(ctx, e.UserID, "Achievement unlocked!", body)
}

// HandlePhaseChanged is the cycle.phase_changed event handler.
func (n *NotificationListener) HandlePhaseChanged(ctx context.Context, e events.Event) error {
	p, ok := events.PayloadAs[events.PhaseChanged](e)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Type)
	}
	title := "New cycle phase: " + p.To.DisplayName()
	return n.sink.Notify(ctx, e.UserID, title, cycle.Advice(p.To))
}

// HandleGoalAchieved is the goal.achieved event handler.
func (n *NotificationListener) HandleGoalAchieved(ctx context.Context, e events.Event) error {
	g, ok := events.PayloadAs[events.GoalAchieved](e)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Type)
	}
	body := fmt.Sprintf("Your nutrition score today is %d. Nice work!", g.Score)
	return n.sink.Notify(ctx, e.UserID, "Daily goals met", body)
}

// achievementName renders STREAK_7 as "7-Day Streak" and FIRST_LOG as
// "First Log".
func achievementName(code string) string {
	var days int
	if _, err := fmt.Sscanf(code, streakAchievementFmt, &days); err == nil {
		return fmt.Sprintf("%d-Day Streak", days)
	}
	words := strings.Split(strings.ToLower(code), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

const (
	// maxTrackedUsers bounds the per-user limiters held by a LogSink.
	maxTrackedUsers = 10000

	// limiterIdleTTL drops the limiter of a user idle this long; their
	// bucket starts full again.
	limiterIdleTTL = time.Hour
)

// LogSink is a NotificationSink that writes notifications to the log. Each
// user has a token bucket; notifications over the limit are dropped.
type LogSink struct {
	logger zerolog.Logger
	limit  rate.Limit
	burst  int

	limiters *cache.LRU[*rate.Limiter]

	delivered atomic.Int64
	dropped   atomic.Int64
}

// NewLogSink creates a sink allowing perSecond notifications per user with
// the given burst.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLogSink(perSecond float64, burst int, logger zerolog.Logger) *LogSink {
	return &LogSink{
		logger:   logger.With().Str("component", "notification-sink").Logger(),
		limit:    rate.Limit(perSecond),
		burst:    max(burst, 1),
		limiters: cache.NewLRU[*rate.Limiter](maxTrackedUsers, limiterIdleTTL),
	}
}

func (s *LogSink) limiterFor(userID string) *rate.Limiter {
	return s.limiters.GetOrAdd(userID, func() *rate.Limiter {
		return rate.NewLimiter(s.limit, s.burst)
	})
}

// Notify implements store.NotificationSink. Throttled notifications are
// dropped without error.
func (s *LogSink) Notify(_ context.Context, userID, title, body string) error {
	if !s.limiterFor(userID).Allow() {
		s.dropped.Add(1)
		metrics.NotificationsDropped.Inc()
		s.logger.Debug().Str("user_id", userID).Str("title", title).Msg("Notification throttled")
		return nil
	}
	s.delivered.Add(1)
	s.logger.Info().
		Str("user_id", userID).
		Str("title", title).
		Str("body", body).
		Msg("Notification")
	return nil
}

// Stats returns the delivered and dropped counts.
func (s *LogSink) Stats() (delivered, dropped int64) {
	return s.delivered.Load(), s.dropped.Load()
}
