// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package service

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/cycle"
	"github.com/tomtom215/lunara/internal/edgecase"
	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/feedback"
	"github.com/tomtom215/lunara/internal/metrics"
	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
	"github.com/tomtom215/lunara/internal/recommend"
	"github.com/tomtom215/lunara/internal/recommend/strategies"
	"github.com/tomtom215/lunara/internal/store"
	"github.com/tomtom215/lunara/internal/validation"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc *Service
	mem *store.MemoryStore
	bus *events.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()

	mem := store.NewMemoryStore()
	store.SeedCatalog(mem)

	bus := events.NewBus(events.DefaultConfig(), logger)
	feedback.Register(bus, feedback.Handlers{
		Updater:       feedback.NewUpdater(mem, feedback.AdditivePolicy{}, logger),
		Gamification:  feedback.NewGamificationHandler(mem, bus, logger),
		Notifications: feedback.NewNotificationListener(feedback.NewLogSink(100, 100, logger), logger),
		NotifyGoals:   true,
	})

	engine, err := recommend.NewEngine(nil, logger)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	for _, name := range []string{strategies.NameIron, strategies.NameProtein, strategies.NameCycleAware, strategies.NamePreference} {
		s, ok := strategies.New(name, nutrition.DeficiencyWarningRatio)
		if !ok {
			t.Fatalf("unknown strategy %s", name)
		}
		engine.Register(s)
	}

	svc := New(Deps{
		Users:       mem,
		Cycles:      mem,
		Foods:       mem,
		Logs:        mem,
		Preferences: mem,
		Feedback:    mem,
		Stats:       mem,
		Engine:      engine,
		Detector:    edgecase.NewDetector(mem, mem, mem, logger),
		Analyzer:    feedback.NewAnalyzer(mem, mem, 0),
		Publisher:   bus,
	}, DefaultConfig(), logger, WithClock(func() time.Time { return testNow }))
	t.Cleanup(svc.Wait)

	return &fixture{svc: svc, mem: mem, bus: bus}
}

// addUser stores a complete 65kg moderately active profile.
func (f *fixture) addUser(t *testing.T, id string, mutate ...func(*models.UserProfile)) {
	t.Helper()
	u := &models.UserProfile{
		ID:            id,
		Name:          "Test User",
		WeightKg:      65,
		HeightCm:      165,
		Age:           30,
		ActivityLevel: nutrition.ActivityModeratelyActive,
		CreatedAt:     testNow.AddDate(0, -1, 0),
	}
	for _, m := range mutate {
		m(u)
	}
	if err := f.mem.SaveUser(context.Background(), u); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
}

// addCycleToday starts a 28/5 cycle on the test day, so today is day 1.
func (f *fixture) addCycleToday(t *testing.T, userID string) {
	t.Helper()
	_, err := f.svc.AddCycle(context.Background(), userID, CycleInput{
		StartDate:    testNow.Format(validation.DateLayout),
		CycleLength:  28,
		PeriodLength: 5,
	})
	if err != nil {
		t.Fatalf("AddCycle: %v", err)
	}
}

func (f *fixture) eventsOfType(typ events.Type) []events.Event {
	var out []events.Event
	for _, e := range f.bus.Recent(0) {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestGetRecommendations_NoCycle(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1")

	res, err := f.svc.GetRecommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if !res.DataInsufficient {
		t.Error("expected DataInsufficient")
	}
	if len(res.Suggestions) != 0 {
		t.Errorf("got %d suggestions, want 0", len(res.Suggestions))
	}
	if res.Message != MessageAddCycleData {
		t.Errorf("Message = %q", res.Message)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %+v", len(res.Warnings), res.Warnings)
	}
	if w := res.Warnings[0]; w.Type != edgecase.TypeNoCycleData || w.Severity != edgecase.SeverityInfo {
		t.Errorf("warning = %+v, want INFO no-cycle", w)
	}
}

func TestGetRecommendations_MenstrualIronScenario(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1")
	f.addCycleToday(t, "u1")

	res, err := f.svc.GetRecommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if res.DataInsufficient {
		t.Fatal("unexpected DataInsufficient")
	}
	if res.Phase == nil || *res.Phase != cycle.PhaseMenstrual {
		t.Fatalf("Phase = %v, want MENSTRUAL", res.Phase)
	}
	if res.DayInCycle != 1 {
		t.Errorf("DayInCycle = %d, want 1", res.DayInCycle)
	}

	goals := res.Goals
	if got := goals.Get(nutrition.Calories); got != 2418 {
		t.Errorf("calories = %v, want 2418", got)
	}
	if got := goals.Get(nutrition.Protein); got != 78 {
		t.Errorf("protein = %v, want 78", got)
	}
	if got := goals.Get(nutrition.Iron); got != 23 {
		t.Errorf("iron = %v, want 23", got)
	}
	if !slices.Contains(res.Deficient, nutrition.Iron.String()) {
		t.Errorf("iron not deficient: %v", res.Deficient)
	}

	if n := len(res.Suggestions); n == 0 || n > 10 {
		t.Fatalf("got %d suggestions, want 1..10", n)
	}
	top := res.Suggestions[0]
	if top.Strategy != strategies.NameIron || top.Priority != 95 {
		t.Errorf("top suggestion = %s/%v, want iron_deficiency/95", top.Strategy, top.Priority)
	}

	seen := map[string]bool{}
	for _, s := range res.Suggestions {
		if seen[s.Food.ID] {
			t.Errorf("duplicate food %s", s.Food.ID)
		}
		seen[s.Food.ID] = true
		if s.TrackingID == "" {
			t.Errorf("suggestion %s has no tracking id", s.Food.ID)
		}
	}

	f.svc.Wait()
	shown := f.eventsOfType(events.TypeRecommendationShown)
	if len(shown) != 1 {
		t.Fatalf("got %d recommendation.shown events, want 1", len(shown))
	}
	payload, ok := events.PayloadAs[events.RecommendationShown](shown[0])
	if !ok || len(payload.TrackingIDs) != len(res.Suggestions) {
		t.Errorf("shown payload = %+v", shown[0].Payload)
	}
}

func TestGetRecommendations_FiltersAllergensAndRejectedFoods(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", func(u *models.UserProfile) { u.Allergies = []string{"Peanut"} })
	f.addCycleToday(t, "u1")

	var n nutrition.Amounts
	n.Set(nutrition.Iron, 20)
	f.mem.AddFood(models.Food{ID: "iron-bar", Name: "Iron Bar", Category: "snacks", Nutrients: n,
		Allergens: []string{"peanut"}, CreatedAt: testNow})

	_, err := f.mem.UpdatePreference(ctx, "u1", "dark-chocolate", func(*models.FoodPreference) (*models.FoodPreference, error) {
		return &models.FoodPreference{UserID: "u1", FoodID: "dark-chocolate", RejectCount: 3}, nil
	})
	if err != nil {
		t.Fatalf("UpdatePreference: %v", err)
	}

	res, err := f.svc.GetRecommendations(ctx, "u1")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	for _, s := range res.Suggestions {
		if s.Food.ID == "iron-bar" || s.Food.ID == "dark-chocolate" {
			t.Errorf("filtered food %s was suggested", s.Food.ID)
		}
	}
	if res.Suggestions[0].Food.ID != "pumpkin-seeds" {
		t.Errorf("top food = %s, want pumpkin-seeds", res.Suggestions[0].Food.ID)
	}
}

func TestGetRecommendations_UnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetRecommendations(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLogFood(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")

	t.Run("validation", func(t *testing.T) {
		_, err := f.svc.LogFood(ctx, "u1", LogFoodInput{FoodID: "oats", MealType: "BRUNCH", Servings: 0})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
		var verr *validation.RequestValidationError
		if !errors.As(err, &verr) || len(verr.Fields) != 2 {
			t.Errorf("validation error = %v", err)
		}
	})

	t.Run("unknown food", func(t *testing.T) {
		_, err := f.svc.LogFood(ctx, "u1", LogFoodInput{FoodID: "unicorn", MealType: models.MealLunch, Servings: 1})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("logged", func(t *testing.T) {
		log, err := f.svc.LogFood(ctx, "u1", LogFoodInput{FoodID: "oats", MealType: "breakfast", Servings: 1.5})
		if err != nil {
			t.Fatalf("LogFood: %v", err)
		}
		if log.ID == "" || log.MealType != models.MealBreakfast {
			t.Errorf("log = %+v", log)
		}

		pref, err := f.mem.GetPreference(ctx, "u1", "oats")
		if err != nil {
			t.Fatalf("GetPreference: %v", err)
		}
		if pref.EatCount != 1 || pref.Score != 0.5 {
			t.Errorf("preference = %+v, want eat count 1 score 0.5", pref)
		}

		stats, err := f.mem.GetStats(ctx, "u1")
		if err != nil {
			t.Fatalf("GetStats: %v", err)
		}
		if stats.TotalLogs != 1 || stats.CurrentStreak != 1 || !stats.HasAchievement(feedback.AchievementFirstLog) {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("explicit date", func(t *testing.T) {
		log, err := f.svc.LogFood(ctx, "u1", LogFoodInput{FoodID: "kale", MealType: models.MealDinner, Servings: 1, Date: "2026-03-01"})
		if err != nil {
			t.Fatalf("LogFood: %v", err)
		}
		if want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); !log.Date.Equal(want) {
			t.Errorf("Date = %v, want %v", log.Date, want)
		}
	})
}

func TestSubmitFeedback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")

	before := testutil.ToFloat64(metrics.FeedbackReceived.WithLabelValues(string(models.ActionAccepted)))

	rec, err := f.svc.SubmitFeedback(ctx, "u1", FeedbackInput{FoodID: "salmon", TrackingID: "t-1", Action: "accepted"})
	if err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if rec.Action != models.ActionAccepted {
		t.Errorf("Action = %s", rec.Action)
	}

	pref, err := f.mem.GetPreference(ctx, "u1", "salmon")
	if err != nil {
		t.Fatalf("GetPreference: %v", err)
	}
	if pref.Score != 0.7 || pref.AcceptCount != 1 {
		t.Errorf("preference = %+v, want score 0.7", pref)
	}

	after := testutil.ToFloat64(metrics.FeedbackReceived.WithLabelValues(string(models.ActionAccepted)))
	if after-before != 1 {
		t.Errorf("feedback counter moved by %v, want 1", after-before)
	}

	if _, err := f.svc.SubmitFeedback(ctx, "u1", FeedbackInput{FoodID: "salmon", Action: "LOVED"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.svc.SubmitFeedback(ctx, "ghost", FeedbackInput{FoodID: "salmon", Action: models.ActionRejected}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmitFeedback_RejectsUnknownReasonAndFood(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")

	if _, err := f.svc.SubmitFeedback(ctx, "u1", FeedbackInput{FoodID: "kale", Action: models.ActionRejected, Reason: "meh"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown reason err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.svc.SubmitFeedback(ctx, "u1", FeedbackInput{FoodID: "unobtainium", Action: models.ActionAccepted}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown food err = %v, want ErrNotFound", err)
	}
	if _, err := f.mem.GetPreference(ctx, "u1", "unobtainium"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown food created a preference: %v", err)
	}
	recent, err := f.mem.RecentFeedback(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("RecentFeedback: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("rejected inputs stored %d records", len(recent))
	}

	rec, err := f.svc.SubmitFeedback(ctx, "u1", FeedbackInput{FoodID: "kale", Action: models.ActionRejected, Reason: "Too_Expensive"})
	if err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if rec.Reason != models.ReasonTooExpensive {
		t.Errorf("Reason = %q, want %q", rec.Reason, models.ReasonTooExpensive)
	}
}

func TestFeedbackAnalysis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")

	for _, in := range []FeedbackInput{
		{FoodID: "salmon", Action: models.ActionAccepted},
		{FoodID: "salmon", Action: models.ActionAccepted},
		{FoodID: "kale", Action: models.ActionRejected, Reason: models.ReasonDontLikeTaste},
		{FoodID: "kale", Action: models.ActionRejected, Reason: models.ReasonDontLikeTaste},
	} {
		if _, err := f.svc.SubmitFeedback(ctx, "u1", in); err != nil {
			t.Fatalf("SubmitFeedback: %v", err)
		}
	}

	a, err := f.svc.FeedbackAnalysis(ctx, "u1")
	if err != nil {
		t.Fatalf("FeedbackAnalysis: %v", err)
	}
	if a.Total != 4 || a.AcceptanceRate != 0.5 {
		t.Errorf("total/rate = %d/%v, want 4/0.5", a.Total, a.AcceptanceRate)
	}
	if len(a.MostAccepted) != 1 || a.MostAccepted[0].FoodID != "salmon" {
		t.Errorf("MostAccepted = %+v", a.MostAccepted)
	}
	if len(a.LeastAccepted) != 1 || a.LeastAccepted[0].FoodID != "kale" {
		t.Errorf("LeastAccepted = %+v", a.LeastAccepted)
	}

	if _, err := f.svc.FeedbackAnalysis(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAddCycleAndCurrentPhase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")

	if _, err := f.svc.CurrentPhase(ctx, "u1"); !errors.Is(err, ErrDataInsufficient) {
		t.Fatalf("err = %v, want ErrDataInsufficient", err)
	}

	invalid := []CycleInput{
		{StartDate: "2026-03-01", CycleLength: 10, PeriodLength: 5},
		{StartDate: "03/01/2026", CycleLength: 28, PeriodLength: 5},
		{StartDate: "2026-03-01", CycleLength: 15, PeriodLength: 15},
	}
	for _, in := range invalid {
		if _, err := f.svc.AddCycle(ctx, "u1", in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("AddCycle(%+v) err = %v, want ErrInvalidInput", in, err)
		}
	}

	rec, err := f.svc.AddCycle(ctx, "u1", CycleInput{StartDate: "2026-02-24", CycleLength: 28, PeriodLength: 5})
	if err != nil {
		t.Fatalf("AddCycle: %v", err)
	}
	if started := f.eventsOfType(events.TypeCycleStarted); len(started) != 1 {
		t.Errorf("got %d cycle.started events, want 1", len(started))
	}

	info, err := f.svc.CurrentPhase(ctx, "u1")
	if err != nil {
		t.Fatalf("CurrentPhase: %v", err)
	}
	// Feb 24 to Mar 10 is 14 days, so today is day 15.
	if info.DayInCycle != 15 || info.Phase != cycle.PhaseOvulation {
		t.Errorf("info = day %d phase %s, want day 15 OVULATION", info.DayInCycle, info.Phase)
	}
	if !info.NextPeriod.Equal(rec.StartDate.AddDate(0, 0, 28)) {
		t.Errorf("NextPeriod = %v", info.NextPeriod)
	}
}

func TestDailySummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")

	if _, err := f.svc.DailySummary(ctx, "u1", testNow); !errors.Is(err, ErrDataInsufficient) {
		t.Fatalf("err = %v, want ErrDataInsufficient", err)
	}
	f.addCycleToday(t, "u1")

	t.Run("empty day", func(t *testing.T) {
		sum, err := f.svc.DailySummary(ctx, "u1", testNow)
		if err != nil {
			t.Fatalf("DailySummary: %v", err)
		}
		if sum.LogCount != 0 || sum.GoalsMet {
			t.Errorf("summary = %+v", sum)
		}
		if len(sum.Deficiencies) == 0 || sum.Deficiencies[0].Level != nutrition.LevelSevere {
			t.Errorf("Deficiencies = %+v, want severe first", sum.Deficiencies)
		}
	})

	t.Run("goals met announced once", func(t *testing.T) {
		goals := nutrition.NewCalculator().Goals(65, nutrition.ActivityModeratelyActive, cycle.PhaseMenstrual)
		f.mem.AddFood(models.Food{ID: "perfect-day", Name: "Perfect Day", Category: "test", Nutrients: goals, CreatedAt: testNow})
		if _, err := f.svc.LogFood(ctx, "u1", LogFoodInput{FoodID: "perfect-day", MealType: models.MealLunch, Servings: 1}); err != nil {
			t.Fatalf("LogFood: %v", err)
		}

		for i := 0; i < 2; i++ {
			sum, err := f.svc.DailySummary(ctx, "u1", testNow)
			if err != nil {
				t.Fatalf("DailySummary: %v", err)
			}
			if sum.Score != 100 || !sum.GoalsMet || sum.LogCount != 1 {
				t.Errorf("summary = score %d met %v logs %d", sum.Score, sum.GoalsMet, sum.LogCount)
			}
		}
		if got := len(f.eventsOfType(events.TypeGoalAchieved)); got != 1 {
			t.Errorf("got %d goal.achieved events, want 1", got)
		}
	})
}

func TestSearchFoods(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		limit int
		want  int
	}{
		{"default limit", "", 0, defaultSearchLimit},
		{"capped limit", "", 500, 25},
		{"by name", "beef", 0, 2},
		{"by category", "FISH", 0, 3},
		{"no match", "pizza", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			foods, err := f.svc.SearchFoods(ctx, tt.query, tt.limit)
			if err != nil {
				t.Fatalf("SearchFoods: %v", err)
			}
			if foods == nil {
				t.Fatal("nil result")
			}
			if len(foods) != tt.want {
				t.Errorf("got %d foods, want %d", len(foods), tt.want)
			}
		})
	}
}

func TestJourney(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", func(u *models.UserProfile) { u.HeightCm = 0 })

	j, err := f.svc.Journey(ctx, "u1")
	if err != nil {
		t.Fatalf("Journey: %v", err)
	}
	if j.Stage != StageNew || j.Progress != 0 {
		t.Errorf("stage/progress = %s/%v, want NEW/0", j.Stage, j.Progress)
	}
	if len(j.Steps) != 5 || len(j.NextActions) != 4 {
		t.Errorf("steps %d next actions %d", len(j.Steps), len(j.NextActions))
	}

	f.addUser(t, "u1")
	f.addCycleToday(t, "u1")
	if _, err := f.svc.LogFood(ctx, "u1", LogFoodInput{FoodID: "eggs", MealType: models.MealBreakfast, Servings: 1}); err != nil {
		t.Fatalf("LogFood: %v", err)
	}

	j, err = f.svc.Journey(ctx, "u1")
	if err != nil {
		t.Fatalf("Journey: %v", err)
	}
	// Logging creates a preference, which counts as having seen suggestions.
	if j.Stage != StageOnboarding || j.Progress != 100 || len(j.NextActions) != 0 {
		t.Errorf("journey = %+v", j)
	}
	if j.Metrics.TotalLogs != 1 || j.Metrics.Preferences != 1 {
		t.Errorf("metrics = %+v", j.Metrics)
	}
}

func TestStageFor(t *testing.T) {
	tests := map[int]Stage{0: StageNew, 1: StageOnboarding, 4: StageOnboarding, 5: StageActive, 29: StageActive, 30: StageEngaged}
	for logs, want := range tests {
		if got := stageFor(logs); got != want {
			t.Errorf("stageFor(%d) = %s, want %s", logs, got, want)
		}
	}
}

func TestWarnings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")
	f.addCycleToday(t, "u1")

	warnings, err := f.svc.Warnings(ctx, "u1")
	if err != nil {
		t.Fatalf("Warnings: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Type != edgecase.TypeActivityGap {
		t.Errorf("warnings = %+v, want only the never-logged nudge", warnings)
	}

	if _, err := f.svc.Warnings(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBodyMetricsFallbacks(t *testing.T) {
	w, a := bodyMetrics(&models.UserProfile{})
	if w != defaultWeightKg || a != defaultActivity {
		t.Errorf("bodyMetrics = %v/%s", w, a)
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.GetProfile(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	invalid := []ProfileInput{
		{WeightKg: -1},
		{HeightCm: 500},
		{Age: 3},
		{ActivityLevel: "couch"},
		{DietaryRestrictions: []string{""}},
	}
	for _, in := range invalid {
		if _, err := f.svc.UpdateProfile(ctx, "u1", in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("UpdateProfile(%+v) err = %v, want ErrInvalidInput", in, err)
		}
	}

	p, err := f.svc.UpdateProfile(ctx, "u1", ProfileInput{
		Name:                " Ada ",
		WeightKg:            58,
		ActivityLevel:       "light",
		DietaryRestrictions: []string{"Vegetarian"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if p.Name != "Ada" || p.ActivityLevel != nutrition.ActivityLightlyActive || !p.IsVegetarian() {
		t.Errorf("profile = %+v", p)
	}
	if missing := p.MissingFields(); !slices.Equal(missing, []string{"height"}) {
		t.Errorf("MissingFields = %v, want [height]", missing)
	}

	// The profile unlocks the operations that need a user.
	f.addCycleToday(t, "u1")
	stored, err := f.svc.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if stored.WeightKg != 58 || !stored.CreatedAt.Equal(testNow) {
		t.Errorf("stored = %+v", stored)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1")

	if _, err := f.svc.Stats(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	st, err := f.svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Level != 1 || st.TotalLogs != 0 || st.Achievements == nil {
		t.Errorf("initial stats = %+v", st)
	}

	for _, date := range []string{"2026-03-08", "2026-03-09", "2026-03-10"} {
		if _, err := f.svc.LogFood(ctx, "u1", LogFoodInput{FoodID: "oats", MealType: models.MealBreakfast, Servings: 1, Date: date}); err != nil {
			t.Fatalf("LogFood: %v", err)
		}
	}

	st, err = f.svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalLogs != 3 || st.CurrentStreak != 3 {
		t.Errorf("stats = %+v, want 3 logs on a 3 day streak", st)
	}
	if !st.HasAchievement(feedback.AchievementFirstLog) || !st.HasAchievement("STREAK_3") {
		t.Errorf("achievements = %v", st.Achievements)
	}
}
