// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/models"
)

func setupTestBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestDuckDB(t *testing.T) *DuckDBFeedbackStore {
	t.Helper()
	s, err := OpenDuckDBFeedbackStore(context.Background(), "")
	if err != nil {
		t.Fatalf("failed to open duckdb: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func incrementEat(current *models.FoodPreference) (*models.FoodPreference, error) {
	next := models.FoodPreference{UserID: "u1", FoodID: "spinach"}
	if current != nil {
		next = *current
	}
	next.EatCount++
	return &next, nil
}

// preferenceStoreContract runs the same checks against every PreferenceStore.
func preferenceStoreContract(t *testing.T, s PreferenceStore) {
	ctx := context.Background()

	if _, err := s.GetPreference(ctx, "u1", "spinach"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPreference on empty store: got %v, want ErrNotFound", err)
	}

	p, err := s.UpdatePreference(ctx, "u1", "spinach", incrementEat)
	if err != nil {
		t.Fatalf("UpdatePreference: %v", err)
	}
	if p.EatCount != 1 {
		t.Errorf("EatCount = %d, want 1", p.EatCount)
	}

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, err := s.UpdatePreference(ctx, "u1", "spinach", incrementEat)
				if errors.Is(err, ErrConflict) {
					continue
				}
				if err != nil {
					t.Errorf("concurrent update: %v", err)
				}
				return
			}
		}()
	}
	wg.Wait()

	got, err := s.GetPreference(ctx, "u1", "spinach")
	if err != nil {
		t.Fatalf("GetPreference: %v", err)
	}
	if got.EatCount != workers+1 {
		t.Errorf("EatCount = %d, want %d (lost update)", got.EatCount, workers+1)
	}

	if _, err := s.UpdatePreference(ctx, "u1", "tofu", func(*models.FoodPreference) (*models.FoodPreference, error) {
		return &models.FoodPreference{UserID: "u1", FoodID: "tofu", Score: 0.5}, nil
	}); err != nil {
		t.Fatalf("UpdatePreference tofu: %v", err)
	}
	if _, err := s.UpdatePreference(ctx, "u2", "tofu", func(*models.FoodPreference) (*models.FoodPreference, error) {
		return &models.FoodPreference{UserID: "u2", FoodID: "tofu"}, nil
	}); err != nil {
		t.Fatalf("UpdatePreference u2: %v", err)
	}

	prefs, err := s.PreferencesForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("PreferencesForUser: %v", err)
	}
	if len(prefs) != 2 {
		t.Errorf("got %d preferences for u1, want 2", len(prefs))
	}

	// An id that extends another user's id must not leak into its scan.
	if _, err := s.UpdatePreference(ctx, "u1:other", "liver", func(*models.FoodPreference) (*models.FoodPreference, error) {
		return &models.FoodPreference{UserID: "u1:other", FoodID: "liver", Score: 1}, nil
	}); err != nil {
		t.Fatalf("UpdatePreference u1:other: %v", err)
	}
	if _, err := s.UpdatePreference(ctx, "u1", "other:liver", func(*models.FoodPreference) (*models.FoodPreference, error) {
		return &models.FoodPreference{UserID: "u1", FoodID: "other:liver", Score: -1}, nil
	}); err != nil {
		t.Fatalf("UpdatePreference u1 other:liver: %v", err)
	}
	prefs, err = s.PreferencesForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("PreferencesForUser: %v", err)
	}
	for _, p := range prefs {
		if p.UserID != "u1" {
			t.Errorf("u1 scan returned a record of %s/%s", p.UserID, p.FoodID)
		}
	}
	if len(prefs) != 3 {
		t.Errorf("got %d preferences for u1, want 3", len(prefs))
	}
	other, err := s.GetPreference(ctx, "u1:other", "liver")
	if err != nil || other.Score != 1 {
		t.Errorf("GetPreference(u1:other, liver) = %+v, %v", other, err)
	}
	own, err := s.GetPreference(ctx, "u1", "other:liver")
	if err != nil || own.Score != -1 {
		t.Errorf("GetPreference(u1, other:liver) = %+v, %v", own, err)
	}

	wantErr := errors.New("boom")
	if _, err := s.UpdatePreference(ctx, "u1", "tofu", func(*models.FoodPreference) (*models.FoodPreference, error) {
		return nil, wantErr
	}); !errors.Is(err, wantErr) {
		t.Errorf("update func error not propagated: %v", err)
	}
}

func TestBadgerPreferenceStore(t *testing.T) {
	preferenceStoreContract(t, NewBadgerPreferenceStore(setupTestBadger(t)))
}

func TestMemoryPreferenceStore(t *testing.T) {
	preferenceStoreContract(t, NewMemoryStore())
}

func feedbackStoreContract(t *testing.T, s FeedbackStore) {
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		rec := &models.FeedbackRecord{
			ID:         fmt.Sprintf("f%d", i),
			UserID:     "u1",
			FoodID:     "spinach",
			TrackingID: fmt.Sprintf("t%d", i),
			Action:     models.ActionAccepted,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.AppendFeedback(ctx, rec); err != nil {
			t.Fatalf("AppendFeedback: %v", err)
		}
	}

	recs, err := s.RecentFeedback(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("RecentFeedback: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if recs[0].ID != "f4" {
		t.Errorf("newest record = %s, want f4", recs[0].ID)
	}
	if recs[0].Action != models.ActionAccepted || recs[0].TrackingID != "t4" {
		t.Errorf("unexpected record %+v", recs[0])
	}

	other, err := s.RecentFeedback(ctx, "u2", 10)
	if err != nil {
		t.Fatalf("RecentFeedback u2: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("u2 should have no feedback, got %d", len(other))
	}
}

func TestDuckDBFeedbackStore(t *testing.T) {
	feedbackStoreContract(t, setupTestDuckDB(t))
}

func TestMemoryFeedbackStore(t *testing.T) {
	feedbackStoreContract(t, NewMemoryStore())
}

func feedbackAggregateContract(t *testing.T, s FeedbackLog) {
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	add := func(id, food string, action models.FeedbackAction, reason models.FeedbackReason) {
		t.Helper()
		err := s.AppendFeedback(ctx, &models.FeedbackRecord{
			ID: id, UserID: "u1", FoodID: food, Action: action, Reason: reason,
			CreatedAt: base,
		})
		if err != nil {
			t.Fatalf("AppendFeedback: %v", err)
		}
	}
	add("1", "liver", models.ActionRejected, models.ReasonDontLikeTaste)
	add("2", "liver", models.ActionRejected, models.ReasonDontLikeTaste)
	add("3", "liver", models.ActionRejected, models.ReasonTooExpensive)
	add("4", "spinach", models.ActionAccepted, "")
	add("5", "spinach", models.ActionSaved, "")

	stats, err := s.FoodAcceptanceStats(ctx, "u1", 100)
	if err != nil {
		t.Fatalf("FoodAcceptanceStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d foods, want 2", len(stats))
	}
	if stats[0].FoodID != "liver" || stats[0].Rejected != 3 || stats[0].Rejection != 1 {
		t.Errorf("unexpected liver stats %+v", stats[0])
	}
	if stats[1].Accepted != 1 || stats[1].Saved != 1 || stats[1].Rate != 1 {
		t.Errorf("unexpected spinach stats %+v", stats[1])
	}

	reasons, err := s.TopRejectionReasons(ctx, "u1", 100, 3)
	if err != nil {
		t.Fatalf("TopRejectionReasons: %v", err)
	}
	if len(reasons) != 2 || reasons[0].Reason != models.ReasonDontLikeTaste || reasons[0].Count != 2 {
		t.Errorf("unexpected reasons %+v", reasons)
	}

	// A window of one sees only the newest record.
	add("6", "tofu", models.ActionAccepted, "")
	windowed, err := s.FoodAcceptanceStats(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("FoodAcceptanceStats windowed: %v", err)
	}
	if len(windowed) != 1 {
		t.Errorf("window of 1 returned %d foods, want 1", len(windowed))
	}
}

func TestDuckDBFeedbackStore_Aggregates(t *testing.T) {
	feedbackAggregateContract(t, setupTestDuckDB(t))
}

func TestMemoryFeedbackStore_Aggregates(t *testing.T) {
	feedbackAggregateContract(t, NewMemoryStore())
}

func TestMemoryStore_Cycles(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.LatestCycle(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LatestCycle on empty store: %v", err)
	}

	newer := &cycle.Record{ID: "c2", UserID: "u1", StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), CycleLength: 28, PeriodLength: 5}
	older := &cycle.Record{ID: "c1", UserID: "u1", StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), CycleLength: 28, PeriodLength: 5}
	for _, rec := range []*cycle.Record{newer, older} {
		if err := s.CreateCycle(ctx, rec); err != nil {
			t.Fatalf("CreateCycle: %v", err)
		}
	}

	latest, err := s.LatestCycle(ctx, "u1")
	if err != nil {
		t.Fatalf("LatestCycle: %v", err)
	}
	if latest.ID != "c2" {
		t.Errorf("latest = %s, want c2", latest.ID)
	}
	recent, _ := s.RecentCycles(ctx, "u1", 5)
	if len(recent) != 2 || recent[1].ID != "c1" {
		t.Errorf("unexpected recent cycles %+v", recent)
	}
}

func TestMemoryStore_FoodCatalog(t *testing.T) {
	s := NewMemoryStore()
	SeedCatalog(s)
	ctx := context.Background()

	hits, err := s.SearchFoods(ctx, "LEGUMES", 0)
	if err != nil {
		t.Fatalf("SearchFoods: %v", err)
	}
	if len(hits) != 3 {
		t.Errorf("legume search returned %d foods, want 3", len(hits))
	}

	hits, _ = s.SearchFoods(ctx, "beef", 1)
	if len(hits) != 1 {
		t.Errorf("limit not applied: %d", len(hits))
	}

	recent, _ := s.RecentFoods(ctx, 2)
	if len(recent) != 2 || recent[0].ID != "kale" {
		t.Errorf("unexpected recent foods %+v", recent)
	}

	if _, err := s.GetFood(ctx, "unicorn"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetFood unknown: %v", err)
	}
}

func TestMemoryStore_LogsAndStats(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	_ = s.CreateLog(ctx, &models.FoodLog{ID: "l1", UserID: "u1", FoodID: "spinach", Servings: 1, Date: day.Add(8 * time.Hour)})
	_ = s.CreateLog(ctx, &models.FoodLog{ID: "l2", UserID: "u1", FoodID: "tofu", Servings: 1, Date: day.Add(-time.Hour)})

	logs, err := s.LogsInRange(ctx, "u1", day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("LogsInRange: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != "l1" {
		t.Errorf("unexpected logs %+v", logs)
	}

	if _, err := s.GetStats(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetStats before update: %v", err)
	}
	st, err := s.UpdateStats(ctx, "u1", func(st *models.UserStats) error {
		st.TotalLogs++
		return nil
	})
	if err != nil || st.TotalLogs != 1 || st.UserID != "u1" {
		t.Errorf("UpdateStats = %+v, %v", st, err)
	}
}
