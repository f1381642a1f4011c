// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler    *Handler
	middleware *Middleware
	logger     zerolog.Logger
}

// NewRouter creates a router. A nil mwConfig selects the defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(handler *Handler, mwConfig *MiddlewareConfig, logger zerolog.Logger) *Router {
	return &Router{
		handler:    handler,
		middleware: NewMiddleware(mwConfig),
		logger:     logger.With().Str("component", "api").Logger(),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(router.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS()) // must be global to answer OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", router.handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", router.handler.Health)

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimit())
			r.Use(RequireUser)

			r.Get("/profile", router.handler.GetProfile)
			r.Put("/profile", router.handler.UpdateProfile)
			r.Get("/stats", router.handler.Stats)

			r.Get("/recommendations", router.handler.GetRecommendations)
			r.Post("/recommendations/feedback", router.handler.SubmitFeedback)
			r.Get("/feedback/analysis", router.handler.FeedbackAnalysis)

			r.Post("/food-logs", router.handler.LogFood)
			r.Get("/nutrition/daily", router.handler.DailySummary)

			r.Post("/cycles", router.handler.AddCycle)
			r.Get("/cycles/current", router.handler.CurrentPhase)

			r.Get("/foods", router.handler.SearchFoods)
			r.Get("/journey", router.handler.Journey)
			r.Get("/warnings", router.handler.Warnings)
		})
	})

	return r
}
