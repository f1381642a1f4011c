// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package service

import (
	"context"
	"errors"

	"github.com/tomtom215/lunara/internal/edgecase"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/store"
)

// Stage is the engagement stage of a user.
type Stage string

// Journey stages by total logs.
const (
	StageNew        Stage = "NEW"
	StageOnboarding Stage = "ONBOARDING"
	StageActive     Stage = "ACTIVE"
	StageEngaged    Stage = "ENGAGED"
)

// Step is an onboarding step.
type Step string

// Onboarding steps, in order.
const (
	StepSetProfile          Step = "SET_PROFILE"
	StepSetCycle            Step = "SET_CYCLE"
	StepFirstLog            Step = "FIRST_LOG"
	StepViewRecommendations Step = "VIEW_RECOMMENDATIONS"
	StepComplete            Step = "COMPLETE"
)

// Stage boundaries in total logs.
const (
	onboardingLogs = 5
	engagedLogs    = 30
)

var stepActions = map[Step]edgecase.Action{
	StepSetProfile:          {Label: "Complete Profile", Target: "/profile"},
	StepSetCycle:            {Label: "Add Cycle Data", Target: "/menstrual-cycle"},
	StepFirstLog:            {Label: "Log a Meal", Target: "/food-log"},
	StepViewRecommendations: {Label: "See Recommendations", Target: "/recommendations"},
}

// StepStatus is one onboarding step and whether it is done.
type StepStatus struct {
	Step      Step `json:"step"`
	Completed bool `json:"completed"`
}

// JourneyMetrics are the counters behind the journey.
type JourneyMetrics struct {
	TotalLogs     int `json:"total_logs"`
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	Level         int `json:"level"`
	TotalXP       int `json:"total_xp"`
	Preferences   int `json:"preferences"`
}

// Journey describes onboarding progress and engagement.
type Journey struct {
	Stage       Stage             `json:"stage"`
	Steps       []StepStatus      `json:"steps"`
	Progress    float64           `json:"progress"`
	NextActions []edgecase.Action `json:"next_actions"`
	Metrics     JourneyMetrics    `json:"metrics"`
}

// Journey returns the user's onboarding steps, stage and next actions.
func (s *Service) Journey(ctx context.Context, userID string) (*Journey, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	hasCycle := true
	if _, err := s.latestCycle(ctx, userID); errors.Is(err, ErrDataInsufficient) {
		hasCycle = false
	} else if err != nil {
		return nil, err
	}

	stats, err := s.Deps.Stats.GetStats(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		stats = &models.UserStats{UserID: userID}
	} else if err != nil {
		return nil, translate(err, "stats for %s", userID)
	}

	prefs, err := s.Preferences.PreferencesForUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "preferences for %s", userID)
	}
	viewed := len(prefs) > 0
	if !viewed {
		recent, err := s.Feedback.RecentFeedback(ctx, userID, 1)
		if err != nil {
			return nil, translate(err, "feedback for %s", userID)
		}
		viewed = len(recent) > 0
	}

	done := map[Step]bool{
		StepSetProfile:          len(u.MissingFields()) == 0,
		StepSetCycle:            hasCycle,
		StepFirstLog:            stats.TotalLogs > 0,
		StepViewRecommendations: viewed,
	}
	done[StepComplete] = done[StepSetProfile] && done[StepSetCycle] &&
		done[StepFirstLog] && done[StepViewRecommendations]

	j := &Journey{
		Stage:       stageFor(stats.TotalLogs),
		NextActions: []edgecase.Action{},
		Metrics: JourneyMetrics{
			TotalLogs:     stats.TotalLogs,
			CurrentStreak: stats.CurrentStreak,
			LongestStreak: stats.LongestStreak,
			Level:         stats.Level,
			TotalXP:       stats.TotalXP,
			Preferences:   len(prefs),
		},
	}

	completed := 0
	for _, step := range []Step{StepSetProfile, StepSetCycle, StepFirstLog, StepViewRecommendations, StepComplete} {
		j.Steps = append(j.Steps, StepStatus{Step: step, Completed: done[step]})
		if done[step] {
			completed++
			continue
		}
		if a, ok := stepActions[step]; ok {
			j.NextActions = append(j.NextActions, a)
		}
	}
	j.Progress = float64(completed) / float64(len(j.Steps)) * 100

	return j, nil
}

func stageFor(totalLogs int) Stage {
	switch {
	case totalLogs == 0:
		return StageNew
	case totalLogs < onboardingLogs:
		return StageOnboarding
	case totalLogs < engagedLogs:
		return StageActive
	default:
		return StageEngaged
	}
}
