// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package feedback

import (
	"github.com/tomtom215/lunara/internal/events"
)

// Handlers groups the feedback-loop components to subscribe. Nil fields
// are skipped.
type Handlers struct {
	Updater       *Updater
	Gamification  *GamificationHandler
	Notifications *NotificationListener

	// NotifyGoals also announces goal.achieved events.
	NotifyGoals bool
}

// Register subscribes h on bus.
func Register(bus *events.Bus, h Handlers) {
	if h.Updater != nil {
		bus.Subscribe(events.TypeFoodLogged, "preference-updater", h.Updater.HandleFoodLogged)
		bus.Subscribe(events.TypeRecommendationFeedback, "preference-updater", h.Updater.HandleFeedback)
	}
	if h.Gamification != nil {
		bus.Subscribe(events.TypeFoodLogged, "gamification", h.Gamification.HandleFoodLogged)
	}
	if h.Notifications != nil {
		bus.Subscribe(events.TypeAchievementUnlocked, "notifications", h.Notifications.HandleAchievement)
		bus.Subscribe(events.TypeCyclePhaseChanged, "notifications", h.Notifications.HandlePhaseChanged)
		if h.NotifyGoals {
			bus.Subscribe(events.TypeGoalAchieved, "notifications", h.Notifications.HandleGoalAchieved)
		}
	}
}
