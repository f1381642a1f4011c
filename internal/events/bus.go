// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package events

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/metrics"
)

// Handler processes one event. The context carries the handler timeout.
type Handler func(ctx context.Context, e Event) error

// SubscriptionID identifies a subscription for Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	name    string
	handler Handler
}

// Config tunes the bus.
type Config struct {
	// LogSize is the number of recent events retained. Zero disables the log.
	LogSize int

	// HandlerTimeout bounds each handler invocation.
	HandlerTimeout time.Duration
}

// DefaultConfig returns the default bus configuration.
func DefaultConfig() Config {
	return Config{
		LogSize:        100,
		HandlerTimeout: 5 * time.Second,
	}
}

// Bus is an in-process publish/subscribe dispatcher. It is safe for
// concurrent use.
type Bus struct {
	config Config
	logger zerolog.Logger

	mu       sync.RWMutex
	handlers map[Type][]subscription
	nextID   atomic.Uint64

	logMu sync.Mutex
	log   []Event
}

// NewBus creates an empty bus.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(cfg Config, logger zerolog.Logger) *Bus {
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = DefaultConfig().HandlerTimeout
	}
	return &Bus{
		config:   cfg,
		logger:   logger.With().Str("component", "events").Logger(),
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe registers h for events of type t. name labels the handler in
// logs.
func (b *Bus) Subscribe(t Type, name string, h Handler) SubscriptionID {
	id := SubscriptionID(b.nextID.Add(1))

	b.mu.Lock()
	b.handlers[t] = append(b.handlers[t], subscription{id: id, name: name, handler: h})
	b.mu.Unlock()

	b.logger.Debug().Str("event_type", string(t)).Str("handler", name).Msg("handler subscribed")
	return id
}

// SubscribeAll registers h for every event type.
func (b *Bus) SubscribeAll(name string, h Handler) SubscriptionID {
	return b.Subscribe(TypeAll, name, h)
}

// Unsubscribe removes a subscription and reports whether it existed.
func (b *Bus) Unsubscribe(t Type, id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[t]
	i := slices.IndexFunc(subs, func(s subscription) bool { return s.id == id })
	if i < 0 {
		return false
	}
	// Copy so in-flight publishes keep their snapshot.
	b.handlers[t] = slices.Delete(slices.Clone(subs), i, i+1)
	return true
}

// HandlerCount returns the number of handlers subscribed to t.
func (b *Bus) HandlerCount(t Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[t])
}

// Publish delivers e to every handler of its type and to every SubscribeAll
// handler, concurrently, and waits for them to settle.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.record(e)
	metrics.EventsPublished.WithLabelValues(string(e.Type)).Inc()

	b.mu.RLock()
	subs := make([]subscription, 0, len(b.handlers[e.Type])+len(b.handlers[TypeAll]))
	subs = append(subs, b.handlers[e.Type]...)
	subs = append(subs, b.handlers[TypeAll]...)
	b.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s subscription) {
			defer wg.Done()
			if err := b.invoke(ctx, s, e); err != nil {
				metrics.EventHandlerFailures.WithLabelValues(string(e.Type)).Inc()
				b.logger.Error().
					Err(err).
					Str("event_id", e.ID).
					Str("event_type", string(e.Type)).
					Str("handler", s.name).
					Str("user_id", e.UserID).
					Msg("event handler failed")
			}
		}(sub)
	}
	wg.Wait()
}

// invoke runs one handler with a timeout and panic recovery. A handler that
// outlives its timeout keeps running; its result is discarded.
func (b *Bus) invoke(ctx context.Context, s subscription, e Event) error {
	hctx, cancel := context.WithTimeout(ctx, b.config.HandlerTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("handler panicked: %v", r)
			}
		}()
		done <- s.handler(hctx, e)
	}()

	select {
	case err := <-done:
		return err
	case <-hctx.Done():
		return fmt.Errorf("handler did not finish: %w", hctx.Err())
	}
}

func (b *Bus) record(e Event) {
	if b.config.LogSize <= 0 {
		return
	}
	b.logMu.Lock()
	defer b.logMu.Unlock()

	b.log = append(b.log, e)
	if over := len(b.log) - b.config.LogSize; over > 0 {
		b.log = slices.Delete(b.log, 0, over)
	}
}

// Recent returns up to n logged events, oldest first. n <= 0 returns all.
func (b *Bus) Recent(n int) []Event {
	b.logMu.Lock()
	defer b.logMu.Unlock()

	start := 0
	if n > 0 && n < len(b.log) {
		start = len(b.log) - n
	}
	return slices.Clone(b.log[start:])
}

// Clear empties the event log.
func (b *Bus) Clear() {
	b.logMu.Lock()
	b.log = nil
	b.logMu.Unlock()
}
