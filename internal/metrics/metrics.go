// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	StrategyRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunara_strategy_runs_total",
			Help: "Total number of strategy executions by result",
		},
		[]string{"strategy", "result"}, // "success", "error", "timeout", "panic", "open"
	)

	StrategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lunara_strategy_duration_seconds",
			Help:    "Duration of strategy executions in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	RecommendationsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lunara_recommendations_generated_total",
			Help: "Total number of recommendation lists generated",
		},
	)

	RecommendationSuggestions = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lunara_recommendation_suggestions",
			Help:    "Number of suggestions per generated list",
			Buckets: prometheus.LinearBuckets(0, 2, 6),
		},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunara_event_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"type"},
	)

	EventHandlerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunara_event_handler_failures_total",
			Help: "Total number of failed event handler invocations",
		},
		[]string{"type"},
	)

	EventsForwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunara_events_forwarded_total",
			Help: "Total number of events forwarded to the message publisher",
		},
		[]string{"result"},
	)

	// Feedback Loop Metrics
	PreferenceUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunara_preference_updates_total",
			Help: "Total number of preference record updates by source",
		},
		[]string{"source"}, // "food_logged", "feedback"
	)

	PreferenceConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lunara_preference_conflicts_total",
			Help: "Total number of retried preference write conflicts",
		},
	)

	FeedbackReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunara_feedback_total",
			Help: "Total number of recommendation feedback actions",
		},
		[]string{"action"},
	)

	NotificationsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lunara_notifications_dropped_total",
			Help: "Total number of notifications dropped by the rate limiter",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunara_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lunara_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordStrategyRun records the outcome and duration of one strategy run.
func RecordStrategyRun(strategy, result string, duration time.Duration) {
	StrategyRuns.WithLabelValues(strategy, result).Inc()
	StrategyDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordRecommendations records a generated list.
func RecordRecommendations(count int) {
	RecommendationsGenerated.Inc()
	RecommendationSuggestions.Observe(float64(count))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
