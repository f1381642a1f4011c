// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package feedback

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/metrics"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/store"
)

// recordingSink captures notifications.
type recordingSink struct {
	mu   sync.Mutex
	sent []string
}

func (s *recordingSink) Notify(_ context.Context, _, title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, title+"|"+body)
	return nil
}

func (s *recordingSink) titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	for i, m := range s.sent {
		out[i], _, _ = strings.Cut(m, "|")
	}
	return out
}

// capturePublisher records published events.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func TestUpdater_ConcurrentFeedbackNotLost(t *testing.T) {
	db, err := store.OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	backends := map[string]store.PreferenceStore{
		"memory": store.NewMemoryStore(),
		"badger": store.NewBadgerPreferenceStore(db),
	}
	for name, prefs := range backends {
		t.Run(name, func(t *testing.T) {
			u := NewUpdater(prefs, AdditivePolicy{}, zerolog.Nop())
			ctx := context.Background()

			const workers = 40
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					action := models.ActionAccepted
					if i%4 == 0 {
						action = models.ActionRejected
					}
					if _, err := u.RecordFeedback(ctx, "u1", "lentils", action, testNow); err != nil {
						t.Errorf("RecordFeedback: %v", err)
					}
				}(i)
			}
			wg.Wait()

			p, err := prefs.GetPreference(ctx, "u1", "lentils")
			if err != nil {
				t.Fatalf("GetPreference: %v", err)
			}
			if p.AcceptCount != 30 || p.RejectCount != 10 {
				t.Errorf("counts = %d/%d, want 30/10", p.AcceptCount, p.RejectCount)
			}
			if !approxEqual(p.AcceptanceRate, 0.75) {
				t.Errorf("AcceptanceRate = %v, want 0.75", p.AcceptanceRate)
			}
		})
	}
}

func TestUpdater_RejectsInvalidAction(t *testing.T) {
	u := NewUpdater(store.NewMemoryStore(), AdditivePolicy{}, zerolog.Nop())
	if _, err := u.RecordFeedback(context.Background(), "u1", "f", "LOVED", testNow); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestUpdater_HandlersThroughBus(t *testing.T) {
	prefs := store.NewMemoryStore()
	bus := events.NewBus(events.DefaultConfig(), zerolog.Nop())
	Register(bus, Handlers{Updater: NewUpdater(prefs, AdditivePolicy{}, zerolog.Nop())})

	before := testutil.ToFloat64(metrics.PreferenceUpdates.WithLabelValues("feedback"))
	ctx := context.Background()
	bus.Publish(ctx, events.New(events.TypeRecommendationFeedback, "u1", events.RecommendationFeedback{
		FoodID: "spinach", TrackingID: "t1", Action: models.ActionAccepted,
	}))
	bus.Publish(ctx, events.New(events.TypeFoodLogged, "u1", &events.FoodLogged{FoodID: "spinach", Servings: 1}))

	p, err := prefs.GetPreference(ctx, "u1", "spinach")
	if err != nil {
		t.Fatalf("GetPreference: %v", err)
	}
	// 0.7 seed from the acceptance, +0.1 from the log
	if !approxEqual(p.Score, 0.8) || p.EatCount != 1 || p.AcceptCount != 1 {
		t.Errorf("unexpected preference %+v", p)
	}
	if got := testutil.ToFloat64(metrics.PreferenceUpdates.WithLabelValues("feedback")) - before; got != 1 {
		t.Errorf("feedback updates = %v, want 1", got)
	}
}

func TestGamification_Streaks(t *testing.T) {
	stats := store.NewMemoryStore()
	g := NewGamificationHandler(stats, nil, zerolog.Nop())
	ctx := context.Background()
	day1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	st, unlocked, err := g.RecordLog(ctx, "u1", day1)
	if err != nil {
		t.Fatalf("RecordLog: %v", err)
	}
	if st.CurrentStreak != 1 || st.TotalXP != 10 || st.Level != 1 || st.TotalLogs != 1 {
		t.Errorf("after first log: %+v", st)
	}
	if len(unlocked) != 1 || unlocked[0].Achievement != AchievementFirstLog {
		t.Errorf("first log achievements = %+v", unlocked)
	}

	// Second log on the same day keeps the streak.
	st, _, _ = g.RecordLog(ctx, "u1", day1.Add(4*time.Hour))
	if st.CurrentStreak != 1 || st.TotalXP != 15 {
		t.Errorf("same-day log: %+v", st)
	}

	st, _, _ = g.RecordLog(ctx, "u1", day1.AddDate(0, 0, 1))
	if st.CurrentStreak != 2 {
		t.Errorf("next-day streak = %d, want 2", st.CurrentStreak)
	}

	st, unlocked, _ = g.RecordLog(ctx, "u1", day1.AddDate(0, 0, 2))
	if st.CurrentStreak != 3 {
		t.Fatalf("streak = %d, want 3", st.CurrentStreak)
	}
	if len(unlocked) != 1 || unlocked[0].Achievement != "STREAK_3" || unlocked[0].XP != 30 {
		t.Errorf("milestone achievements = %+v", unlocked)
	}
	// 10 + 5 + 5 + 5 + 30
	if st.TotalXP != 55 {
		t.Errorf("TotalXP = %d, want 55", st.TotalXP)
	}

	// A gap resets the streak but not the longest streak.
	st, _, _ = g.RecordLog(ctx, "u1", day1.AddDate(0, 0, 6))
	if st.CurrentStreak != 1 || st.LongestStreak != 3 {
		t.Errorf("after gap: current %d longest %d", st.CurrentStreak, st.LongestStreak)
	}
}

func TestGamification_BackdatedLogKeepsStreak(t *testing.T) {
	g := NewGamificationHandler(store.NewMemoryStore(), nil, zerolog.Nop())
	ctx := context.Background()
	day1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for d := 0; d < 5; d++ {
		if _, _, err := g.RecordLog(ctx, "u1", day1.AddDate(0, 0, d)); err != nil {
			t.Fatalf("RecordLog: %v", err)
		}
	}

	// Logging a meal from the day before does not break the run.
	st, _, err := g.RecordLog(ctx, "u1", day1.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("RecordLog: %v", err)
	}
	if st.CurrentStreak != 5 || st.TotalLogs != 6 {
		t.Errorf("after back-dated log: streak %d logs %d, want 5 and 6", st.CurrentStreak, st.TotalLogs)
	}
	if want := day1.AddDate(0, 0, 4); !st.LastLogDate.Equal(want) {
		t.Errorf("LastLogDate = %v, want %v", st.LastLogDate, want)
	}

	st, _, _ = g.RecordLog(ctx, "u1", day1.AddDate(0, 0, 5))
	if st.CurrentStreak != 6 {
		t.Errorf("next-day streak = %d, want 6", st.CurrentStreak)
	}
}

func TestGamification_MilestoneAwardedOnce(t *testing.T) {
	g := NewGamificationHandler(store.NewMemoryStore(), nil, zerolog.Nop())
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	var awarded []string
	record := func(day int) {
		_, unlocked, err := g.RecordLog(ctx, "u1", start.AddDate(0, 0, day))
		if err != nil {
			t.Fatalf("RecordLog: %v", err)
		}
		for _, a := range unlocked {
			awarded = append(awarded, a.Achievement)
		}
	}
	for d := 0; d < 3; d++ {
		record(d)
	}
	// Break the streak, then rebuild it to 3.
	for d := 10; d < 13; d++ {
		record(d)
	}
	if want := []string{"FIRST_LOG", "STREAK_3"}; !slices.Equal(awarded, want) {
		t.Errorf("awarded = %v, want %v", awarded, want)
	}
}

func TestGamification_LevelUp(t *testing.T) {
	st := &models.UserStats{TotalLogs: 20, TotalXP: 98, Level: 1}
	applyLog(st, testNow, nil)
	if st.TotalXP != 103 || st.Level != 2 {
		t.Errorf("XP %d level %d, want 103 and 2", st.TotalXP, st.Level)
	}
}

func TestGamification_PublishesAchievements(t *testing.T) {
	pub := &capturePublisher{}
	g := NewGamificationHandler(store.NewMemoryStore(), pub, zerolog.Nop())

	e := events.New(events.TypeFoodLogged, "u1", events.FoodLogged{FoodID: "oats"})
	if err := g.HandleFoodLogged(context.Background(), e); err != nil {
		t.Fatalf("HandleFoodLogged: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.TypeAchievementUnlocked {
		t.Fatalf("published %+v", pub.events)
	}
	a, ok := events.PayloadAs[events.AchievementUnlocked](pub.events[0])
	if !ok || a.Achievement != AchievementFirstLog || a.XP != 10 {
		t.Errorf("unexpected achievement payload %+v", pub.events[0].Payload)
	}
}

func TestNotificationListener(t *testing.T) {
	sink := &recordingSink{}
	bus := events.NewBus(events.DefaultConfig(), zerolog.Nop())
	Register(bus, Handlers{
		Gamification:  NewGamificationHandler(store.NewMemoryStore(), bus, zerolog.Nop()),
		Notifications: NewNotificationListener(sink, zerolog.Nop()),
	})
	ctx := context.Background()

	bus.Publish(ctx, events.New(events.TypeFoodLogged, "u1", events.FoodLogged{FoodID: "oats"}))
	bus.Publish(ctx, events.New(events.TypeCyclePhaseChanged, "u1", events.PhaseChanged{
		From: cycle.PhaseMenstrual, To: cycle.PhaseFollicular, Day: 6,
	}))
	// goal.achieved is not subscribed unless NotifyGoals is set.
	bus.Publish(ctx, events.New(events.TypeGoalAchieved, "u1", events.GoalAchieved{Score: 92}))

	want := []string{"Achievement unlocked!", "New cycle phase: Follicular"}
	if got := sink.titles(); !slices.Equal(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
	if sink.sent[0] != "Achievement unlocked!|You earned First Log (+10 XP)" {
		t.Errorf("achievement notification = %q", sink.sent[0])
	}
	if sink.sent[1] != "New cycle phase: Follicular|"+cycle.Advice(cycle.PhaseFollicular) {
		t.Errorf("phase notification = %q", sink.sent[1])
	}
}

func TestAchievementName(t *testing.T) {
	tests := map[string]string{
		"FIRST_LOG":  "First Log",
		"STREAK_7":   "7-Day Streak",
		"STREAK_365": "365-Day Streak",
	}
	for code, want := range tests {
		if got := achievementName(code); got != want {
			t.Errorf("achievementName(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestLogSink_Throttles(t *testing.T) {
	sink := NewLogSink(0.001, 2, zerolog.Nop())
	ctx := context.Background()

	before := testutil.ToFloat64(metrics.NotificationsDropped)
	for i := 0; i < 5; i++ {
		if err := sink.Notify(ctx, "u1", "t", fmt.Sprint(i)); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}
	// Another user has their own bucket.
	_ = sink.Notify(ctx, "u2", "t", "b")

	delivered, dropped := sink.Stats()
	if delivered != 3 || dropped != 3 {
		t.Errorf("delivered %d dropped %d, want 3 and 3", delivered, dropped)
	}
	if got := testutil.ToFloat64(metrics.NotificationsDropped) - before; got != 3 {
		t.Errorf("dropped metric delta = %v, want 3", got)
	}
}

func seedFeedback(t *testing.T, fs store.FeedbackStore, user string, recs ...models.FeedbackRecord) {
	t.Helper()
	for i := range recs {
		rec := recs[i]
		rec.ID = fmt.Sprintf("%s-%d", user, i)
		rec.UserID = user
		rec.CreatedAt = testNow.Add(time.Duration(i) * time.Minute)
		if err := fs.AppendFeedback(context.Background(), &rec); err != nil {
			t.Fatalf("AppendFeedback: %v", err)
		}
	}
}

func fb(food string, action models.FeedbackAction, reason models.FeedbackReason) models.FeedbackRecord {
	return models.FeedbackRecord{FoodID: food, Action: action, Reason: reason}
}

func TestAnalyzer_Analyze(t *testing.T) {
	backends := map[string]func(t *testing.T) store.FeedbackLog{
		"memory": func(*testing.T) store.FeedbackLog { return store.NewMemoryStore() },
		"duckdb": func(t *testing.T) store.FeedbackLog {
			s, err := store.OpenDuckDBFeedbackStore(context.Background(), "")
			if err != nil {
				t.Fatalf("OpenDuckDBFeedbackStore: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			fs := open(t)
			seedFeedback(t, fs, "u1",
				fb("salmon", models.ActionAccepted, ""),
				fb("salmon", models.ActionAccepted, ""),
				fb("salmon", models.ActionAccepted, ""),
				fb("liver", models.ActionRejected, models.ReasonDontLikeTaste),
				fb("liver", models.ActionRejected, models.ReasonDontLikeTaste),
				fb("tofu", models.ActionRejected, models.ReasonTooExpensive),
				fb("tofu", models.ActionAccepted, ""),
				fb("kale", models.ActionSaved, ""),
			)

			a := NewAnalyzer(fs, store.NewMemoryStore(), 0)
			got, err := a.Analyze(context.Background(), "u1")
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}

			if got.Window != DefaultAnalysisWindow {
				t.Errorf("Window = %d", got.Window)
			}
			if got.Total != 8 || got.Accepted != 4 || got.Rejected != 3 || got.Saved != 1 {
				t.Errorf("totals = %d/%d/%d/%d", got.Total, got.Accepted, got.Rejected, got.Saved)
			}
			if !approxEqual(got.AcceptanceRate, 0.5) {
				t.Errorf("AcceptanceRate = %v, want 0.5", got.AcceptanceRate)
			}
			if len(got.TopRejectionReasons) != 2 || got.TopRejectionReasons[0].Reason != models.ReasonDontLikeTaste {
				t.Errorf("reasons = %+v", got.TopRejectionReasons)
			}
			if len(got.MostAccepted) != 1 || got.MostAccepted[0].FoodID != "salmon" {
				t.Errorf("most accepted = %+v", got.MostAccepted)
			}
			if len(got.LeastAccepted) != 1 || got.LeastAccepted[0].FoodID != "liver" {
				t.Errorf("least accepted = %+v", got.LeastAccepted)
			}
			wantTips := []string{reasonTips[models.ReasonDontLikeTaste], reasonTips[models.ReasonTooExpensive]}
			if !slices.Equal(got.Tips, wantTips) {
				t.Errorf("tips = %v, want %v", got.Tips, wantTips)
			}
		})
	}
}

func TestAnalyzer_EmptyAndWindow(t *testing.T) {
	fs := store.NewMemoryStore()
	a := NewAnalyzer(fs, fs, 2)
	ctx := context.Background()

	empty, err := a.Analyze(ctx, "nobody")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if empty.Total != 0 || len(empty.Tips) != 1 || empty.Tips[0] != tipDefault {
		t.Errorf("empty analysis = %+v", empty)
	}

	seedFeedback(t, fs, "u1",
		fb("liver", models.ActionRejected, models.ReasonOther),
		fb("liver", models.ActionRejected, models.ReasonOther),
		fb("oats", models.ActionAccepted, ""),
		fb("oats", models.ActionAccepted, ""),
	)
	got, err := a.Analyze(ctx, "u1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.Total != 2 || got.Accepted != 2 {
		t.Errorf("window of 2 counted %d records (%d accepted)", got.Total, got.Accepted)
	}
	if len(got.Tips) != 1 || got.Tips[0] != tipHighAcceptance {
		t.Errorf("tips = %v", got.Tips)
	}
}

func TestAnalyzer_FoodsToAvoid(t *testing.T) {
	prefs := store.NewMemoryStore()
	ctx := context.Background()
	set := func(food string, accepts, rejects int) {
		_, err := prefs.UpdatePreference(ctx, "u1", food, func(*models.FoodPreference) (*models.FoodPreference, error) {
			return &models.FoodPreference{UserID: "u1", FoodID: food, AcceptCount: accepts, RejectCount: rejects}, nil
		})
		if err != nil {
			t.Fatalf("UpdatePreference: %v", err)
		}
	}
	set("liver", 0, 3)    // avoided
	set("sardines", 1, 3) // rejection rate 0.75, avoided
	set("tofu", 2, 3)     // rejection rate 0.6
	set("beets", 0, 2)    // too few rejections

	a := NewAnalyzer(prefs, prefs, 0)
	got, err := a.FoodsToAvoid(ctx, "u1")
	if err != nil {
		t.Fatalf("FoodsToAvoid: %v", err)
	}
	if want := []string{"liver", "sardines"}; !slices.Equal(got, want) {
		t.Errorf("FoodsToAvoid = %v, want %v", got, want)
	}
}
