// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

// Package edgecase detects situations that should qualify or suppress
// recommendations: incomplete profiles, missing or stale cycle data,
// abnormal cycles and long logging gaps.
package edgecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/store"
)

// Severity grades a warning.
type Severity string

const (
	SeverityInfo       Severity = "INFO"
	SeverityWarning    Severity = "WARNING"
	SeverityHealthNote Severity = "HEALTH_NOTE"
)

// Type identifies which check produced a warning.
type Type string

const (
	TypeProfileIncomplete Type = "PROFILE_INCOMPLETE"
	TypeNoCycleData       Type = "NO_CYCLE_DATA"
	TypeStaleCycleData    Type = "STALE_CYCLE_DATA"
	TypeCycleAbnormal     Type = "CYCLE_ABNORMAL"
	TypeLifeStage         Type = "LIFE_STAGE"
	TypeActivityGap       Type = "ACTIVITY_GAP"
	TypeCheckFailed       Type = "CHECK_FAILED"
)

// Action is an optional call to action attached to a warning.
type Action struct {
	Label  string `json:"label"`
	Target string `json:"target"`
}

// Warning is one detected edge case.
type Warning struct {
	Type     Type     `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Action   *Action  `json:"action,omitempty"`
}

// Activity gap bounds in days.
const (
	softGapDays   = 7
	strongGapDays = 30
)

// Detector runs the edge case checks for a user.
type Detector struct {
	users  store.UserReader
	cycles store.CycleStore
	stats  store.StatsStore
	logger zerolog.Logger
}

// NewDetector creates a detector over the given readers.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDetector(users store.UserReader, cycles store.CycleStore, stats store.StatsStore, logger zerolog.Logger) *Detector {
	return &Detector{
		users:  users,
		cycles: cycles,
		stats:  stats,
		logger: logger.With().Str("component", "edgecase").Logger(),
	}
}

// CheckAll runs every check in order and returns the warnings found. Each
// check contributes at most one warning. A failing reader is logged and
// reported once as a HEALTH_NOTE; the remaining checks still run. An
// unknown user aborts with store.ErrNotFound and no warnings.
func (d *Detector) CheckAll(ctx context.Context, userID string, now time.Time) ([]Warning, error) {
	var (
		warnings []Warning
		failed   bool
	)
	fail := func(check string, err error) {
		d.logger.Warn().Err(err).Str("user_id", userID).Str("check", check).Msg("edge case check failed")
		failed = true
	}

	user, err := d.users.GetUser(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return []Warning{}, fmt.Errorf("user %s: %w", userID, err)
	case err != nil:
		fail("profile", err)
	default:
		if missing := user.MissingFields(); len(missing) > 0 {
			warnings = append(warnings, Warning{
				Type:     TypeProfileIncomplete,
				Severity: SeverityWarning,
				Message: fmt.Sprintf("Complete your profile (missing: %s) to get accurate nutrition targets.",
					strings.Join(missing, ", ")),
				Action: &Action{Label: "Complete Profile", Target: "/profile"},
			})
		}
	}

	latest, err := d.cycles.LatestCycle(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		warnings = append(warnings, noCycleWarning())
		return d.finish(warnings, failed), nil
	case err != nil:
		fail("cycle", err)
	default:
		warnings = appendCycleWarnings(warnings, latest, now)
	}

	if w, err := d.activityGap(ctx, userID, now); err != nil {
		fail("activity", err)
	} else if w != nil {
		warnings = append(warnings, *w)
	}

	return d.finish(warnings, failed), nil
}

func (d *Detector) finish(warnings []Warning, failed bool) []Warning {
	if failed {
		warnings = append(warnings, Warning{
			Type:     TypeCheckFailed,
			Severity: SeverityHealthNote,
			Message:  "Some checks could not be completed",
		})
	}
	if warnings == nil {
		warnings = []Warning{}
	}
	return warnings
}

func noCycleWarning() Warning {
	return Warning{
		Type:     TypeNoCycleData,
		Severity: SeverityInfo,
		Message: "You haven't logged your menstrual cycle yet. Add cycle data to unlock " +
			"personalized recommendations based on your hormonal phases.",
		Action: &Action{Label: "Add Cycle Data", Target: "/menstrual-cycle"},
	}
}

// appendCycleWarnings runs the freshness, abnormality and life stage checks.
func appendCycleWarnings(warnings []Warning, rec *cycle.Record, now time.Time) []Warning {
	days := cycle.DaysSinceStart(rec, now)

	if rec.CycleLength > 0 {
		if elapsed := days / rec.CycleLength; elapsed >= 2 {
			warnings = append(warnings, Warning{
				Type:     TypeStaleCycleData,
				Severity: SeverityWarning,
				Message: fmt.Sprintf("Your cycle data may be out of date. It has been about %d cycles "+
					"since your last logged period.", elapsed),
				Action: &Action{Label: "Update Cycle", Target: "/menstrual-cycle"},
			})
		}
	}

	if h := cycle.AssessHealth(rec); h.Status != cycle.HealthNormal {
		w := Warning{
			Type:     TypeCycleAbnormal,
			Severity: SeverityHealthNote,
			Message:  h.Message,
		}
		if h.ShouldConsultDoctor {
			w.Action = &Action{Label: "Talk to a Doctor", Target: "/health"}
		}
		warnings = append(warnings, w)
	}

	if cycle.IsStale(rec, now) {
		warnings = append(warnings, Warning{
			Type:     TypeLifeStage,
			Severity: SeverityInfo,
			Message: fmt.Sprintf("It has been %d days since your last logged period. If you are pregnant, "+
				"postpartum or in menopause you can switch tracking mode.", days),
			Action: &Action{Label: "Switch Mode", Target: "/settings"},
		})
	}

	return warnings
}

func (d *Detector) activityGap(ctx context.Context, userID string, now time.Time) (*Warning, error) {
	stats, err := d.stats.GetStats(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if stats == nil || stats.LastLogDate.IsZero() {
		return &Warning{
			Type:     TypeActivityGap,
			Severity: SeverityInfo,
			Message:  "Welcome! Log a meal to start tracking your nutrition.",
			Action:   &Action{Label: "Log a Meal", Target: "/food-log"},
		}, nil
	}

	gap := int(cycle.Day(now).Sub(cycle.Day(stats.LastLogDate)).Hours() / 24)
	switch {
	case gap >= strongGapDays:
		return &Warning{
			Type:     TypeActivityGap,
			Severity: SeverityWarning,
			Message: "Your data is over a month old. Recommendations may be less accurate. " +
				"Start logging again to get fresh insights.",
			Action: &Action{Label: "Start Fresh", Target: "/food-log"},
		}, nil
	case gap > softGapDays:
		return &Warning{
			Type:     TypeActivityGap,
			Severity: SeverityInfo,
			Message: "It's been a while since your last log. Your data is still here, " +
				"so pick up where you left off!",
			Action: &Action{Label: "Continue Tracking", Target: "/food-log"},
		}, nil
	}
	return nil, nil
}
