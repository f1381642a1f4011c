// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package store

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/models"
)

// MemoryStore is an in-process implementation of every store interface.
// The server uses it for users, cycles, foods, logs and stats; tests also
// use it for preferences and feedback.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]*models.UserProfile
	cycles      map[string][]*cycle.Record
	foods       []models.Food
	foodIndex   map[string]int
	logs        map[string][]models.FoodLog
	stats       map[string]*models.UserStats
	preferences map[prefKey]*models.FoodPreference
	feedback    map[string][]models.FeedbackRecord
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]*models.UserProfile),
		cycles:      make(map[string][]*cycle.Record),
		foodIndex:   make(map[string]int),
		logs:        make(map[string][]models.FoodLog),
		stats:       make(map[string]*models.UserStats),
		preferences: make(map[prefKey]*models.FoodPreference),
		feedback:    make(map[string][]models.FeedbackRecord),
	}
}

// GetUser implements UserReader.
func (s *MemoryStore) GetUser(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// SaveUser creates or replaces a profile.
func (s *MemoryStore) SaveUser(_ context.Context, user *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *user
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = &cp
	return nil
}

// ListUserIDs returns all user ids in sorted order.
func (s *MemoryStore) ListUserIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// LatestCycle implements CycleStore.
func (s *MemoryStore) LatestCycle(ctx context.Context, userID string) (*cycle.Record, error) {
	recs, err := s.RecentCycles(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs[0], nil
}

// RecentCycles implements CycleStore.
func (s *MemoryStore) RecentCycles(_ context.Context, userID string, n int) ([]*cycle.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.cycles[userID]
	out := make([]*cycle.Record, 0, max(0, min(n, len(recs))))
	for i := len(recs) - 1; i >= 0 && len(out) < n; i-- {
		cp := *recs[i]
		out = append(out, &cp)
	}
	return out, nil
}

// CreateCycle implements CycleStore. Records are kept ordered by start
// date so the latest record is the most recent period.
func (s *MemoryStore) CreateCycle(_ context.Context, rec *cycle.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	recs := append(s.cycles[rec.UserID], &cp)
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].StartDate.Before(recs[j].StartDate)
	})
	s.cycles[rec.UserID] = recs
	return nil
}

// AddFood appends a food to the catalog, replacing any entry with the same id.
func (s *MemoryStore) AddFood(food models.Food) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.foodIndex[food.ID]; ok {
		s.foods[idx] = food
		return
	}
	s.foodIndex[food.ID] = len(s.foods)
	s.foods = append(s.foods, food)
}

// SearchFoods implements FoodCatalog.
func (s *MemoryStore) SearchFoods(_ context.Context, query string, limit int) ([]models.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Food
	for _, f := range s.foods {
		if limit > 0 && len(out) >= limit {
			break
		}
		if q == "" ||
			strings.Contains(strings.ToLower(f.Name), q) ||
			strings.Contains(strings.ToLower(f.Category), q) {
			out = append(out, f)
		}
	}
	return out, nil
}

// RecentFoods implements FoodCatalog.
func (s *MemoryStore) RecentFoods(_ context.Context, limit int) ([]models.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Food, 0, max(0, min(limit, len(s.foods))))
	for i := len(s.foods) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.foods[i])
	}
	return out, nil
}

// GetFood implements FoodCatalog.
func (s *MemoryStore) GetFood(_ context.Context, foodID string) (*models.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.foodIndex[foodID]
	if !ok {
		return nil, ErrNotFound
	}
	f := s.foods[idx]
	return &f, nil
}

// CreateLog implements LogStore.
func (s *MemoryStore) CreateLog(_ context.Context, log *models.FoodLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs[log.UserID] = append(s.logs[log.UserID], *log)
	return nil
}

// LogsInRange implements LogStore.
func (s *MemoryStore) LogsInRange(_ context.Context, userID string, from, to time.Time) ([]models.FoodLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.FoodLog
	for _, l := range s.logs[userID] {
		if !l.Date.Before(from) && l.Date.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

// GetStats implements StatsStore.
func (s *MemoryStore) GetStats(_ context.Context, userID string) (*models.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stats[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *st
	cp.Achievements = slices.Clone(st.Achievements)
	return &cp, nil
}

// UpdateStats implements StatsStore.
func (s *MemoryStore) UpdateStats(_ context.Context, userID string, fn func(*models.UserStats) error) (*models.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := models.UserStats{UserID: userID}
	if st, ok := s.stats[userID]; ok {
		next = *st
		next.Achievements = slices.Clone(st.Achievements)
	}
	if err := fn(&next); err != nil {
		return nil, err
	}
	s.stats[userID] = &next
	cp := next
	return &cp, nil
}

type prefKey struct {
	userID, foodID string
}

func preferenceKey(userID, foodID string) prefKey {
	return prefKey{userID: userID, foodID: foodID}
}

// PreferencesForUser implements PreferenceStore.
func (s *MemoryStore) PreferencesForUser(_ context.Context, userID string) ([]models.FoodPreference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.FoodPreference
	for _, p := range s.preferences {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FoodID < out[j].FoodID })
	return out, nil
}

// GetPreference implements PreferenceStore.
func (s *MemoryStore) GetPreference(_ context.Context, userID, foodID string) (*models.FoodPreference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.preferences[preferenceKey(userID, foodID)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// UpdatePreference implements PreferenceStore. The whole read-modify-write
// runs under the store lock.
func (s *MemoryStore) UpdatePreference(_ context.Context, userID, foodID string, fn PreferenceUpdateFunc) (*models.FoodPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := preferenceKey(userID, foodID)
	var current *models.FoodPreference
	if p, ok := s.preferences[key]; ok {
		cp := *p
		current = &cp
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	stored := *next
	s.preferences[key] = &stored
	return next, nil
}

// AppendFeedback implements FeedbackStore.
func (s *MemoryStore) AppendFeedback(_ context.Context, rec *models.FeedbackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feedback[rec.UserID] = append(s.feedback[rec.UserID], *rec)
	return nil
}

// RecentFeedback implements FeedbackStore.
func (s *MemoryStore) RecentFeedback(_ context.Context, userID string, n int) ([]models.FeedbackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.feedback[userID]
	out := make([]models.FeedbackRecord, 0, max(0, min(n, len(recs))))
	for i := len(recs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, recs[i])
	}
	return out, nil
}

// FoodAcceptanceStats implements FeedbackAggregator.
func (s *MemoryStore) FoodAcceptanceStats(ctx context.Context, userID string, window int) ([]FoodAcceptance, error) {
	recs, err := s.RecentFeedback(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	foods, _ := aggregateFeedback(recs)
	return foods, nil
}

// TopRejectionReasons implements FeedbackAggregator.
func (s *MemoryStore) TopRejectionReasons(ctx context.Context, userID string, window, limit int) ([]ReasonCount, error) {
	recs, err := s.RecentFeedback(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	_, reasons := aggregateFeedback(recs)
	if len(reasons) > limit {
		reasons = reasons[:limit]
	}
	return reasons, nil
}
