// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/edgecase"
	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/validation"
)

// CycleInput is the request to log a new cycle.
type CycleInput struct {
	StartDate    string `json:"start_date" validate:"required,calendar_date"`
	CycleLength  int    `json:"cycle_length" validate:"required,min=15,max=60"`
	PeriodLength int    `json:"period_length" validate:"required,min=1,max=15"`
}

// AddCycle validates and stores a new cycle record. The record becomes
// the user's latest cycle.
func (s *Service) AddCycle(ctx context.Context, userID string, in CycleInput) (*cycle.Record, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}

	start, _ := time.Parse(validation.DateLayout, in.StartDate)
	rec := &cycle.Record{
		ID:           uuid.NewString(),
		UserID:       userID,
		StartDate:    start,
		CycleLength:  in.CycleLength,
		PeriodLength: in.PeriodLength,
		CreatedAt:    s.now().UTC(),
	}
	if err := rec.Validate(); err != nil {
		return nil, translate(err, "cycle")
	}
	if err := s.Cycles.CreateCycle(ctx, rec); err != nil {
		return nil, fmt.Errorf("create cycle: %w", err)
	}

	s.publish(ctx, events.New(events.TypeCycleStarted, userID, events.CycleStarted{
		CycleID:   rec.ID,
		StartDate: rec.StartDate,
	}))

	s.logger.Info().
		Str("user_id", userID).
		Str("cycle_id", rec.ID).
		Int("cycle_length", rec.CycleLength).
		Int("period_length", rec.PeriodLength).
		Msg("Cycle logged")

	return rec, nil
}

// CurrentPhase returns the derived phase information for today. It
// returns ErrDataInsufficient when the user has no cycles.
func (s *Service) CurrentPhase(ctx context.Context, userID string) (*cycle.Info, error) {
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	rec, err := s.latestCycle(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := cycle.PhaseInfo(rec, s.now())
	return &info, nil
}

// Warnings runs the edge case detector for the user.
func (s *Service) Warnings(ctx context.Context, userID string) ([]edgecase.Warning, error) {
	warnings, err := s.Detector.CheckAll(ctx, userID, s.now())
	if err != nil {
		return nil, translate(err, "edge cases for %s", userID)
	}
	if warnings == nil {
		warnings = []edgecase.Warning{}
	}
	return warnings, nil
}
