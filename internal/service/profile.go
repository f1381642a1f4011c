// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
	"github.com/tomtom215/lunara/internal/store"
)

// ProfileInput replaces the body metrics and dietary settings of a user.
// Omitted values are stored as unknown.
type ProfileInput struct {
	Name                string   `json:"name" validate:"omitempty,max=100"`
	WeightKg            float64  `json:"weight_kg" validate:"omitempty,gt=0,lte=400"`
	HeightCm            float64  `json:"height_cm" validate:"omitempty,gt=0,lte=300"`
	Age                 int      `json:"age" validate:"omitempty,min=10,max=120"`
	ActivityLevel       string   `json:"activity_level" validate:"omitempty,activity"`
	DietaryRestrictions []string `json:"dietary_restrictions" validate:"omitempty,max=20,dive,required,max=50"`
	Allergies           []string `json:"allergies" validate:"omitempty,max=20,dive,required,max=50"`
	HealthConditions    []string `json:"health_conditions" validate:"omitempty,max=20,dive,required,max=50"`
}

// GetProfile returns the user's profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.user(ctx, userID)
}

// UpdateProfile creates or replaces the user's profile. CreatedAt survives
// a replace.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.UserProfile, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	activity := nutrition.ActivityUnknown
	if in.ActivityLevel != "" {
		// Validated above.
		activity, _ = nutrition.ParseActivityLevel(in.ActivityLevel)
	}

	createdAt := s.now().UTC()
	existing, err := s.Users.GetUser(ctx, userID)
	switch {
	case err == nil:
		createdAt = existing.CreatedAt
	case !errors.Is(err, store.ErrNotFound):
		return nil, translate(err, "user %s", userID)
	}

	profile := &models.UserProfile{
		ID:                  userID,
		Name:                strings.TrimSpace(in.Name),
		WeightKg:            in.WeightKg,
		HeightCm:            in.HeightCm,
		Age:                 in.Age,
		ActivityLevel:       activity,
		DietaryRestrictions: trimAll(in.DietaryRestrictions),
		Allergies:           trimAll(in.Allergies),
		HealthConditions:    trimAll(in.HealthConditions),
		CreatedAt:           createdAt,
	}
	if err := s.Users.SaveUser(ctx, profile); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Bool("created", existing == nil).
		Strs("missing", profile.MissingFields()).
		Msg("Profile saved")

	return profile, nil
}

// Stats returns the user's gamification statistics. A user who has never
// logged food gets zeroed stats at level 1.
func (s *Service) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	st, err := s.Deps.Stats.GetStats(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &models.UserStats{UserID: userID, Level: 1, Achievements: []string{}}, nil
	}
	if err != nil {
		return nil, translate(err, "stats for %s", userID)
	}
	if st.Achievements == nil {
		st.Achievements = []string{}
	}
	return st, nil
}

func trimAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
