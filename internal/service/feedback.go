// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/feedback"
	"github.com/tomtom215/lunara/internal/metrics"
	"github.com/tomtom215/lunara/internal/models"
)

// FeedbackInput is the user's response to a suggestion.
type FeedbackInput struct {
	FoodID     string                `json:"food_id" validate:"required"`
	TrackingID string                `json:"tracking_id"`
	Action     models.FeedbackAction `json:"action" validate:"required,feedback_action"`
	Reason     models.FeedbackReason `json:"reason,omitempty" validate:"omitempty,feedback_reason"`
}

// SubmitFeedback appends a feedback record and publishes
// recommendation.feedback. Preferences reflect the action on return.
func (s *Service) SubmitFeedback(ctx context.Context, userID string, in FeedbackInput) (*models.FeedbackRecord, error) {
	in.Action = models.FeedbackAction(strings.ToUpper(string(in.Action)))
	in.Reason = models.FeedbackReason(strings.ToLower(string(in.Reason)))
	if err := validate(in); err != nil {
		return nil, err
	}
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.Foods.GetFood(ctx, in.FoodID); err != nil {
		return nil, translate(err, "food %s", in.FoodID)
	}

	rec := &models.FeedbackRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		FoodID:     in.FoodID,
		TrackingID: in.TrackingID,
		Action:     in.Action,
		Reason:     in.Reason,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.Feedback.AppendFeedback(ctx, rec); err != nil {
		return nil, fmt.Errorf("append feedback: %w", err)
	}
	metrics.FeedbackReceived.WithLabelValues(string(rec.Action)).Inc()

	e := events.New(events.TypeRecommendationFeedback, userID, events.RecommendationFeedback{
		FoodID:     rec.FoodID,
		TrackingID: rec.TrackingID,
		Action:     rec.Action,
		Reason:     rec.Reason,
	})
	e.Timestamp = rec.CreatedAt
	s.publish(ctx, e)

	s.logger.Debug().
		Str("user_id", userID).
		Str("food_id", rec.FoodID).
		Str("tracking_id", rec.TrackingID).
		Str("action", string(rec.Action)).
		Msg("Feedback recorded")

	return rec, nil
}

// FeedbackAnalysis summarises the user's recent feedback.
func (s *Service) FeedbackAnalysis(ctx context.Context, userID string) (*feedback.Analysis, error) {
	if s.Analyzer == nil {
		return nil, ErrAnalyticsDisabled
	}
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	a, err := s.Analyzer.Analyze(ctx, userID)
	if err != nil {
		return nil, translate(err, "feedback analysis for %s", userID)
	}
	return a, nil
}
