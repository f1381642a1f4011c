// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package store

import (
	"context"
	"time"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/models"
)

// UserReader reads user profiles.
type UserReader interface {
	// GetUser returns ErrNotFound when the user does not exist.
	GetUser(ctx context.Context, userID string) (*models.UserProfile, error)
}

// UserStore reads and writes user profiles.
type UserStore interface {
	UserReader
	SaveUser(ctx context.Context, user *models.UserProfile) error
	ListUserIDs(ctx context.Context) ([]string, error)
}

// CycleStore reads and creates cycle records.
type CycleStore interface {
	// LatestCycle returns ErrNotFound when the user has no cycles.
	LatestCycle(ctx context.Context, userID string) (*cycle.Record, error)
	// RecentCycles returns up to n records, newest first.
	RecentCycles(ctx context.Context, userID string, n int) ([]*cycle.Record, error)
	CreateCycle(ctx context.Context, rec *cycle.Record) error
}

// FoodCatalog reads the food catalog.
type FoodCatalog interface {
	// SearchFoods matches name or category case-insensitively.
	SearchFoods(ctx context.Context, query string, limit int) ([]models.Food, error)
	// RecentFoods returns up to limit foods, most recently added first.
	RecentFoods(ctx context.Context, limit int) ([]models.Food, error)
	// GetFood returns ErrNotFound when the food does not exist.
	GetFood(ctx context.Context, foodID string) (*models.Food, error)
}

// LogStore reads and writes daily food logs.
type LogStore interface {
	CreateLog(ctx context.Context, log *models.FoodLog) error
	// LogsInRange returns entries with from <= Date < to.
	LogsInRange(ctx context.Context, userID string, from, to time.Time) ([]models.FoodLog, error)
}

// PreferenceStore persists per-user per-food preferences.
type PreferenceStore interface {
	PreferencesForUser(ctx context.Context, userID string) ([]models.FoodPreference, error)
	// GetPreference returns ErrNotFound when no record exists.
	GetPreference(ctx context.Context, userID, foodID string) (*models.FoodPreference, error)
	// UpdatePreference applies fn atomically to the current record. fn
	// receives nil when no record exists and returns the record to store.
	UpdatePreference(ctx context.Context, userID, foodID string, fn PreferenceUpdateFunc) (*models.FoodPreference, error)
}

// PreferenceUpdateFunc computes the next state of a preference record.
// It may be invoked more than once when a write conflict is retried.
type PreferenceUpdateFunc func(current *models.FoodPreference) (*models.FoodPreference, error)

// FeedbackStore is an append-only feedback log.
type FeedbackStore interface {
	AppendFeedback(ctx context.Context, rec *models.FeedbackRecord) error
	// RecentFeedback returns up to n records, newest first.
	RecentFeedback(ctx context.Context, userID string, n int) ([]models.FeedbackRecord, error)
}

// FeedbackAggregator answers aggregate questions over the newest window
// feedback records of a user.
type FeedbackAggregator interface {
	// FoodAcceptanceStats returns per-food counts, most interacted first.
	FoodAcceptanceStats(ctx context.Context, userID string, window int) ([]FoodAcceptance, error)
	// TopRejectionReasons returns up to limit reasons, most frequent first.
	TopRejectionReasons(ctx context.Context, userID string, window, limit int) ([]ReasonCount, error)
}

// FeedbackLog is a feedback store that can also aggregate.
type FeedbackLog interface {
	FeedbackStore
	FeedbackAggregator
}

// StatsStore reads and updates gamification statistics.
type StatsStore interface {
	// GetStats returns ErrNotFound when the user has no stats yet.
	GetStats(ctx context.Context, userID string) (*models.UserStats, error)
	// UpdateStats applies fn atomically. fn receives a zero-value record
	// with UserID set when none exists.
	UpdateStats(ctx context.Context, userID string, fn func(*models.UserStats) error) (*models.UserStats, error)
}

// NotificationSink accepts user notifications. Delivery is best effort.
type NotificationSink interface {
	Notify(ctx context.Context, userID, title, body string) error
}

var (
	_ UserStore       = (*MemoryStore)(nil)
	_ CycleStore      = (*MemoryStore)(nil)
	_ FoodCatalog     = (*MemoryStore)(nil)
	_ LogStore        = (*MemoryStore)(nil)
	_ StatsStore      = (*MemoryStore)(nil)
	_ PreferenceStore = (*MemoryStore)(nil)
	_ FeedbackLog     = (*MemoryStore)(nil)
	_ PreferenceStore = (*BadgerPreferenceStore)(nil)
	_ FeedbackLog     = (*DuckDBFeedbackStore)(nil)
)
