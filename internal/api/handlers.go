// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/edgecase"
	"github.com/tomtom215/lunara/internal/feedback"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/service"
	"github.com/tomtom215/lunara/internal/validation"
)

// Service is the subset of *service.Service the handlers call.
type Service interface {
	GetRecommendations(ctx context.Context, userID string) (*service.RecommendationResult, error)
	SubmitFeedback(ctx context.Context, userID string, in service.FeedbackInput) (*models.FeedbackRecord, error)
	FeedbackAnalysis(ctx context.Context, userID string) (*feedback.Analysis, error)
	LogFood(ctx context.Context, userID string, in service.LogFoodInput) (*models.FoodLog, error)
	DailySummary(ctx context.Context, userID string, day time.Time) (*service.DailySummary, error)
	AddCycle(ctx context.Context, userID string, in service.CycleInput) (*cycle.Record, error)
	CurrentPhase(ctx context.Context, userID string) (*cycle.Info, error)
	SearchFoods(ctx context.Context, query string, limit int) ([]models.Food, error)
	Journey(ctx context.Context, userID string) (*service.Journey, error)
	Warnings(ctx context.Context, userID string) ([]edgecase.Warning, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, in service.ProfileInput) (*models.UserProfile, error)
	Stats(ctx context.Context, userID string) (*models.UserStats, error)
}

var _ Service = (*service.Service)(nil)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// healthCheckTimeout bounds each dependency check.
const healthCheckTimeout = 2 * time.Second

// Handler serves the REST endpoints.
type Handler struct {
	svc     Service
	checks  map[string]HealthCheck
	now     func() time.Time
	started time.Time
}

// NewHandler creates a handler. checks may be nil.
func NewHandler(svc Service, checks map[string]HealthCheck, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		svc:     svc,
		checks:  checks,
		now:     now,
		started: now(),
	}
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	UptimeSeconds int64             `json:"uptime_seconds"`
}

// Health reports liveness and the state of registered dependencies. Any
// failing check yields 503 with status "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:        "healthy",
		Checks:        make(map[string]string, len(h.checks)),
		UptimeSeconds: int64(h.now().Sub(h.started).Seconds()),
	}
	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := check(ctx)
		cancel()
		if err != nil {
			status.Status = "degraded"
			status.Checks[name] = err.Error()
			continue
		}
		status.Checks[name] = "ok"
	}

	rw := NewResponseWriter(w, r)
	if status.Status != "healthy" {
		rw.write(http.StatusServiceUnavailable, APIResponse{Success: false, Data: status, Meta: rw.meta()})
		return
	}
	rw.Success(status)
}

// GetRecommendations handles GET /api/v1/recommendations.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	result, err := h.svc.GetRecommendations(r.Context(), userID(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(result)
}

// SubmitFeedback handles POST /api/v1/recommendations/feedback.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var in service.FeedbackInput
	if err := decodeJSON(w, r, &in); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	rec, err := h.svc.SubmitFeedback(r.Context(), userID(r), in)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(rec)
}

// FeedbackAnalysis handles GET /api/v1/feedback/analysis.
func (h *Handler) FeedbackAnalysis(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	analysis, err := h.svc.FeedbackAnalysis(r.Context(), userID(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(analysis)
}

// LogFood handles POST /api/v1/food-logs.
func (h *Handler) LogFood(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var in service.LogFoodInput
	if err := decodeJSON(w, r, &in); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	log, err := h.svc.LogFood(r.Context(), userID(r), in)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(log)
}

// DailySummary handles GET /api/v1/nutrition/daily?date=YYYY-MM-DD. The
// date defaults to today.
func (h *Handler) DailySummary(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	day := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(validation.DateLayout, raw)
		if err != nil {
			rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "date must be formatted as YYYY-MM-DD")
			return
		}
		day = parsed
	}
	summary, err := h.svc.DailySummary(r.Context(), userID(r), day)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(summary)
}

// AddCycle handles POST /api/v1/cycles.
func (h *Handler) AddCycle(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var in service.CycleInput
	if err := decodeJSON(w, r, &in); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	rec, err := h.svc.AddCycle(r.Context(), userID(r), in)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(rec)
}

// CurrentPhase handles GET /api/v1/cycles/current.
func (h *Handler) CurrentPhase(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	info, err := h.svc.CurrentPhase(r.Context(), userID(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(info)
}

// SearchFoods handles GET /api/v1/foods?q=&limit=.
func (h *Handler) SearchFoods(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	foods, err := h.svc.SearchFoods(r.Context(), r.URL.Query().Get("q"), getIntParam(r, "limit", 0))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(foods)
}

// Journey handles GET /api/v1/journey.
func (h *Handler) Journey(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	journey, err := h.svc.Journey(r.Context(), userID(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(journey)
}

// Warnings handles GET /api/v1/warnings.
func (h *Handler) Warnings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	warnings, err := h.svc.Warnings(r.Context(), userID(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(warnings)
}

// GetProfile handles GET /api/v1/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	profile, err := h.svc.GetProfile(r.Context(), userID(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(profile)
}

// UpdateProfile handles PUT /api/v1/profile. The profile of the acting
// user is created on first use.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var in service.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	profile, err := h.svc.UpdateProfile(r.Context(), userID(r), in)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(profile)
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	stats, err := h.svc.Stats(r.Context(), userID(r))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(stats)
}

// getIntParam returns the integer query parameter key, or defaultValue
// when it is missing or malformed.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}
