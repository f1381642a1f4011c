// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/metrics"
	"github.com/tomtom215/lunara/internal/models"
)

// fakeStrategy returns fixed suggestions or behaves badly on demand.
type fakeStrategy struct {
	name      string
	priority  int
	supported bool
	out       []Suggestion
	err       error
	panicMsg  string
	block     bool
	calls     atomic.Int32
}

func (f *fakeStrategy) Name() string           { return f.name }
func (f *fakeStrategy) Priority() int          { return f.priority }
func (f *fakeStrategy) Supports(*Context) bool { return f.supported }
func (f *fakeStrategy) Recommend(ctx context.Context, _ *Context, _ []models.Food) ([]Suggestion, error) {
	f.calls.Add(1)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	out := make([]Suggestion, len(f.out))
	copy(out, f.out)
	return out, f.err
}

func suggest(foodID string, priority float64) Suggestion {
	return Suggestion{Food: models.Food{ID: foodID, Name: foodID}, Priority: priority}
}

func newTestEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func foodIDs(ss []Suggestion) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Food.ID
	}
	return out
}

func TestGenerate_DedupKeepsHigherPriority(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Register(&fakeStrategy{name: "low", priority: 70, supported: true, out: []Suggestion{suggest("spinach", 70)}})
	e.Register(&fakeStrategy{name: "high", priority: 50, supported: true, out: []Suggestion{suggest("spinach", 90)}})

	got, err := e.Generate(context.Background(), &Context{}, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v, want one suggestion", foodIDs(got))
	}
	if got[0].Priority != 90 || got[0].Strategy != "high" {
		t.Errorf("kept %+v, want the priority 90 suggestion from high", got[0])
	}
}

func TestGenerate_TieKeepsEarlierStrategy(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Register(&fakeStrategy{name: "second", priority: 10, supported: true, out: []Suggestion{suggest("tofu", 80)}})
	e.Register(&fakeStrategy{name: "first", priority: 20, supported: true, out: []Suggestion{suggest("tofu", 80)}})

	got, _ := e.Generate(context.Background(), &Context{}, nil)
	if len(got) != 1 || got[0].Strategy != "first" {
		t.Errorf("got %+v, want suggestion from first", got)
	}
}

func TestGenerate_CapsAndSorts(t *testing.T) {
	e := newTestEngine(t, nil)
	var a, b []Suggestion
	for i := 0; i < 8; i++ {
		a = append(a, suggest(fmt.Sprintf("a%d", i), float64(50+i)))
		b = append(b, suggest(fmt.Sprintf("b%d", i), float64(60+i)))
	}
	b = append(b, suggest("a0", 99))
	e.Register(&fakeStrategy{name: "a", priority: 1, supported: true, out: a})
	e.Register(&fakeStrategy{name: "b", priority: 2, supported: true, out: b})

	got, _ := e.Generate(context.Background(), &Context{}, nil)
	if len(got) != 10 {
		t.Fatalf("got %d suggestions, want 10", len(got))
	}
	seen := map[string]bool{}
	for i, s := range got {
		if seen[s.Food.ID] {
			t.Errorf("duplicate food %s", s.Food.ID)
		}
		seen[s.Food.ID] = true
		if i > 0 && s.Priority > got[i-1].Priority {
			t.Errorf("not sorted at %d: %v > %v", i, s.Priority, got[i-1].Priority)
		}
	}
	if got[0].Food.ID != "a0" || got[0].Priority != 99 {
		t.Errorf("top = %+v, want a0 at 99", got[0])
	}
}

func TestGenerate_SkipsUnsupportedAndFailing(t *testing.T) {
	e := newTestEngine(t, &Config{
		MaxSuggestions:          10,
		StrategyTimeout:         50 * time.Millisecond,
		BreakerFailureThreshold: 5,
		BreakerTimeout:          time.Minute,
	})
	unsupported := &fakeStrategy{name: "unsupported", priority: 99, out: []Suggestion{suggest("x", 1)}}
	e.Register(unsupported)
	e.Register(&fakeStrategy{name: "boom", priority: 90, supported: true, err: errors.New("boom")})
	e.Register(&fakeStrategy{name: "panics", priority: 80, supported: true, panicMsg: "nil map"})
	e.Register(&fakeStrategy{name: "slow", priority: 70, supported: true, block: true})
	e.Register(&fakeStrategy{name: "good", priority: 60, supported: true, out: []Suggestion{suggest("oats", 70)}})

	before := testutil.ToFloat64(metrics.StrategyRuns.WithLabelValues("slow", resultTimeout))

	got, err := e.Generate(context.Background(), &Context{}, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 1 || got[0].Food.ID != "oats" {
		t.Fatalf("got %v, want only oats", foodIDs(got))
	}
	if unsupported.calls.Load() != 0 {
		t.Error("unsupported strategy should not run")
	}
	if st := e.Stats(); st.Failures != 3 || st.Requests != 1 {
		t.Errorf("stats = %+v, want 3 failures and 1 request", st)
	}
	if after := testutil.ToFloat64(metrics.StrategyRuns.WithLabelValues("slow", resultTimeout)); after != before+1 {
		t.Errorf("timeout metric = %v, want %v", after, before+1)
	}
}

func TestGenerate_BreakerOpens(t *testing.T) {
	e := newTestEngine(t, &Config{
		MaxSuggestions:          10,
		StrategyTimeout:         time.Second,
		BreakerFailureThreshold: 2,
		BreakerTimeout:          time.Minute,
	})
	bad := &fakeStrategy{name: "flaky", priority: 10, supported: true, err: errors.New("db down")}
	e.Register(bad)

	for i := 0; i < 4; i++ {
		if _, err := e.Generate(context.Background(), &Context{}, nil); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	}
	if calls := bad.calls.Load(); calls != 2 {
		t.Errorf("strategy called %d times, want 2 before the breaker opened", calls)
	}
	if state := e.Stats().Strategies[0].Breaker; state != "open" {
		t.Errorf("breaker state = %q, want open", state)
	}
}

func TestRegistry(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Register(&fakeStrategy{name: "a", priority: 50})
	e.Register(&fakeStrategy{name: "b", priority: 80})
	e.Register(&fakeStrategy{name: "c", priority: 50})

	names := func() string {
		var out []string
		for _, s := range e.Strategies() {
			out = append(out, s.Name())
		}
		return fmt.Sprint(out)
	}
	if got := names(); got != "[b a c]" {
		t.Errorf("order = %s, want [b a c]", got)
	}

	// Replacing keeps the registration slot.
	e.Register(&fakeStrategy{name: "a", priority: 50, supported: true})
	if got := names(); got != "[b a c]" {
		t.Errorf("order after replace = %s, want [b a c]", got)
	}
	if !e.Strategies()[1].Supports(nil) {
		t.Error("replacement was not installed")
	}

	if !e.Remove("b") {
		t.Error("Remove(b) = false")
	}
	if e.Remove("missing") {
		t.Error("Remove(missing) = true")
	}
	if got := names(); got != "[a c]" {
		t.Errorf("order after remove = %s, want [a c]", got)
	}
}

func TestRunStrategy_CallerCancelDoesNotTripBreaker(t *testing.T) {
	e := newTestEngine(t, &Config{
		MaxSuggestions:          10,
		StrategyTimeout:         time.Second,
		BreakerFailureThreshold: 1,
		BreakerTimeout:          time.Minute,
	})
	slow := &fakeStrategy{name: "slow", priority: 10, supported: true, block: true}
	e.Register(slow)
	reg := e.snapshot()[0]

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if out := e.runStrategy(ctx, &Context{}, reg, nil); out != nil {
			t.Errorf("cancelled run returned %v", foodIDs(out))
		}
	}
	if calls := slow.calls.Load(); calls != 3 {
		t.Errorf("strategy called %d times, want 3", calls)
	}
	if state := e.Stats().Strategies[0].Breaker; state != "closed" {
		t.Errorf("breaker state = %q, want closed", state)
	}
	if got := e.Stats().Failures; got != 0 {
		t.Errorf("Failures = %d, want 0", got)
	}
}

func TestGenerate_Errors(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.Generate(context.Background(), nil, nil); err == nil {
		t.Error("expected error for nil context")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Generate(ctx, &Context{}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if _, err := NewEngine(&Config{MaxSuggestions: 0, StrategyTimeout: time.Second, BreakerFailureThreshold: 1}, zerolog.Nop()); err == nil {
		t.Error("expected error for zero MaxSuggestions")
	}
}

// reverseReranker returns the k lowest-priority suggestions first.
type reverseReranker struct {
	seen int
}

func (*reverseReranker) Name() string { return "reverse" }

func (r *reverseReranker) Rerank(_ context.Context, ranked []Suggestion, k int) []Suggestion {
	r.seen = len(ranked)
	out := make([]Suggestion, 0, k)
	for i := len(ranked) - 1; i >= 0 && len(out) < k; i-- {
		out = append(out, ranked[i])
	}
	return out
}

func TestGenerate_Reranker(t *testing.T) {
	e := newTestEngine(t, &Config{
		MaxSuggestions:          2,
		StrategyTimeout:         time.Second,
		BreakerFailureThreshold: 5,
		BreakerTimeout:          time.Second,
	})
	e.Register(&fakeStrategy{name: "s", priority: 1, supported: true, out: []Suggestion{
		suggest("a", 90), suggest("b", 80), suggest("c", 70), suggest("d", 60),
	}})

	rr := &reverseReranker{}
	e.SetReranker(rr)
	got, _ := e.Generate(context.Background(), &Context{}, nil)
	if rr.seen != 4 {
		t.Errorf("reranker saw %d suggestions, want all 4", rr.seen)
	}
	if ids := foodIDs(got); len(ids) != 2 || ids[0] != "d" || ids[1] != "c" {
		t.Errorf("got %v, want [d c]", ids)
	}

	e.SetReranker(nil)
	got, _ = e.Generate(context.Background(), &Context{}, nil)
	if ids := foodIDs(got); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("got %v after removing reranker, want [a b]", ids)
	}
}
