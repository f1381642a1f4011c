// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package recommend

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/lunara/internal/metrics"
	"github.com/tomtom215/lunara/internal/models"
)

// Strategy run outcomes recorded in metrics.
const (
	resultOK       = "ok"
	resultError    = "error"
	resultTimeout  = "timeout"
	resultPanic    = "panic"
	resultOpen     = "open"
	resultCanceled = "canceled"
)

var errStrategyPanic = errors.New("strategy panicked")

// Config tunes the engine.
type Config struct {
	// MaxSuggestions caps the ranked output.
	MaxSuggestions int

	// StrategyTimeout bounds a single strategy run.
	StrategyTimeout time.Duration

	// BreakerFailureThreshold is the number of consecutive failures that
	// opens a strategy's breaker.
	BreakerFailureThreshold uint32

	// BreakerTimeout is how long a breaker stays open before probing.
	BreakerTimeout time.Duration
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxSuggestions:          10,
		StrategyTimeout:         2 * time.Second,
		BreakerFailureThreshold: 5,
		BreakerTimeout:          30 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxSuggestions < 1 {
		return fmt.Errorf("max suggestions must be at least 1, got %d", c.MaxSuggestions)
	}
	if c.StrategyTimeout <= 0 {
		return errors.New("strategy timeout must be positive")
	}
	if c.BreakerFailureThreshold == 0 {
		return errors.New("breaker failure threshold must be positive")
	}
	return nil
}

type registration struct {
	strategy Strategy
	seq      uint64
	breaker  *gobreaker.CircuitBreaker[[]Suggestion]
}

// Engine runs registered strategies and ranks their suggestions. It is safe
// for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	mu       sync.RWMutex
	regs     []*registration
	nextSeq  uint64
	reranker Reranker

	requestCount    atomic.Int64
	failureCount    atomic.Int64
	suggestionCount atomic.Int64
}

// NewEngine creates an engine with no strategies.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Register adds s. A strategy with the same name is replaced and keeps its
// registration slot.
func (e *Engine) Register(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reg := &registration{strategy: s, breaker: e.newBreaker(s.Name())}
	for i, existing := range e.regs {
		if existing.strategy.Name() == s.Name() {
			reg.seq = existing.seq
			e.regs[i] = reg
			e.logger.Info().Str("strategy", s.Name()).Msg("replaced strategy")
			return
		}
	}

	reg.seq = e.nextSeq
	e.nextSeq++
	e.regs = append(e.regs, reg)
	e.logger.Info().
		Str("strategy", s.Name()).
		Int("priority", s.Priority()).
		Msg("registered strategy")
}

// SetReranker installs r as the final ordering pass. nil restores plain
// priority order.
func (e *Engine) SetReranker(r Reranker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reranker = r
	if r != nil {
		e.logger.Info().Str("reranker", r.Name()).Msg("installed reranker")
	}
}

// Remove unregisters the named strategy and reports whether it existed.
func (e *Engine) Remove(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, reg := range e.regs {
		if reg.strategy.Name() == name {
			e.regs = slices.Delete(e.regs, i, i+1)
			e.logger.Info().Str("strategy", name).Msg("removed strategy")
			return true
		}
	}
	return false
}

// Strategies returns the registered strategies in run order.
func (e *Engine) Strategies() []Strategy {
	snapshot := e.snapshot()
	out := make([]Strategy, len(snapshot))
	for i, reg := range snapshot {
		out[i] = reg.strategy
	}
	return out
}

// Stats returns activity counters and the state of each breaker.
func (e *Engine) Stats() Stats {
	snapshot := e.snapshot()
	st := Stats{
		Requests:    e.requestCount.Load(),
		Failures:    e.failureCount.Load(),
		Suggestions: e.suggestionCount.Load(),
		Strategies:  make([]StrategyStats, len(snapshot)),
	}
	for i, reg := range snapshot {
		st.Strategies[i] = StrategyStats{
			Name:     reg.strategy.Name(),
			Priority: reg.strategy.Priority(),
			Breaker:  reg.breaker.State().String(),
		}
	}
	return st
}

// snapshot copies the registrations ordered by static priority descending,
// then registration order.
func (e *Engine) snapshot() []*registration {
	e.mu.RLock()
	regs := slices.Clone(e.regs)
	e.mu.RUnlock()

	slices.SortStableFunc(regs, func(a, b *registration) int {
		if c := cmp.Compare(b.strategy.Priority(), a.strategy.Priority()); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return regs
}

func (e *Engine) newBreaker(name string) *gobreaker.CircuitBreaker[[]Suggestion] {
	threshold := e.config.BreakerFailureThreshold
	return gobreaker.NewCircuitBreaker[[]Suggestion](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     e.config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller that went away says nothing about the strategy's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn().
				Str("strategy", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("strategy circuit breaker state changed")
		},
	})
}

// Generate runs every supported strategy over foods and returns the ranked,
// deduplicated suggestions. Strategy failures are isolated and never
// returned; the only error is a nil context or a cancelled ctx.
func (e *Engine) Generate(ctx context.Context, rc *Context, foods []models.Food) ([]Suggestion, error) {
	if rc == nil {
		return nil, errors.New("recommendation context is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.requestCount.Add(1)

	regs := e.snapshot()
	results := make([][]Suggestion, len(regs))

	var wg sync.WaitGroup
	for i, reg := range regs {
		wg.Add(1)
		go func(idx int, r *registration) {
			defer wg.Done()
			results[idx] = e.runStrategy(ctx, rc, r, foods)
		}(i, reg)
	}
	wg.Wait()

	e.mu.RLock()
	reranker := e.reranker
	e.mu.RUnlock()

	var ranked []Suggestion
	if reranker != nil {
		ranked = reranker.Rerank(ctx, rank(results, 0), e.config.MaxSuggestions)
	} else {
		ranked = rank(results, e.config.MaxSuggestions)
	}
	e.suggestionCount.Add(int64(len(ranked)))
	metrics.RecordRecommendations(len(ranked))

	e.logger.Debug().
		Int("strategies", len(regs)).
		Int("candidates", len(foods)).
		Int("returned", len(ranked)).
		Msg("recommendations generated")

	return ranked, nil
}

// runStrategy runs one strategy under its breaker and timeout. Unsupported
// strategies and failures yield nil.
func (e *Engine) runStrategy(ctx context.Context, rc *Context, reg *registration, foods []models.Food) []Suggestion {
	name := reg.strategy.Name()
	start := time.Now()

	supported, err := safeSupports(reg.strategy, rc)
	if err != nil {
		e.recordFailure(name, resultPanic, start, err)
		return nil
	}
	if !supported {
		return nil
	}

	runCtx, cancel := context.WithTimeout(ctx, e.config.StrategyTimeout)
	defer cancel()

	out, err := reg.breaker.Execute(func() ([]Suggestion, error) {
		return callStrategy(runCtx, reg.strategy, rc, foods)
	})

	switch {
	case err == nil:
		metrics.RecordStrategyRun(name, resultOK, time.Since(start))
		for i := range out {
			out[i].Strategy = name
		}
		return out
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		e.recordFailure(name, resultOpen, start, err)
	case errors.Is(err, context.Canceled):
		metrics.RecordStrategyRun(name, resultCanceled, time.Since(start))
	case errors.Is(err, context.DeadlineExceeded):
		e.recordFailure(name, resultTimeout, start, err)
	case errors.Is(err, errStrategyPanic):
		e.recordFailure(name, resultPanic, start, err)
	default:
		e.recordFailure(name, resultError, start, err)
	}
	return nil
}

func (e *Engine) recordFailure(name, result string, start time.Time, err error) {
	e.failureCount.Add(1)
	metrics.RecordStrategyRun(name, result, time.Since(start))
	e.logger.Warn().
		Err(err).
		Str("strategy", name).
		Str("result", result).
		Msg("strategy skipped")
}

func safeSupports(s Strategy, rc *Context) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w in Supports: %v", errStrategyPanic, r)
		}
	}()
	return s.Supports(rc), nil
}

// callStrategy invokes Recommend in its own goroutine so a strategy that
// ignores ctx is still abandoned at the deadline.
func callStrategy(ctx context.Context, s Strategy, rc *Context, foods []models.Food) ([]Suggestion, error) {
	type outcome struct {
		suggestions []Suggestion
		err         error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", errStrategyPanic, r)}
			}
		}()
		out, err := s.Recommend(ctx, rc, foods)
		done <- outcome{suggestions: out, err: err}
	}()

	select {
	case res := <-done:
		return res.suggestions, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// rank merges per-strategy results in order, keeps the highest priority
// suggestion per food, and sorts by priority descending. A non-positive
// limit keeps everything.
func rank(results [][]Suggestion, limit int) []Suggestion {
	merged := make([]Suggestion, 0)
	index := make(map[string]int)

	for _, batch := range results {
		for _, s := range batch {
			if i, seen := index[s.Food.ID]; seen {
				if s.Priority > merged[i].Priority {
					merged[i] = s
				}
				continue
			}
			index[s.Food.ID] = len(merged)
			merged = append(merged, s)
		}
	}

	slices.SortStableFunc(merged, func(a, b Suggestion) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
