// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/metrics"
)

// Message metadata keys set on forwarded events.
const (
	MetadataEventType = "event_type"
	MetadataUserID    = "user_id"
)

// Forwarder mirrors bus events to a Watermill publisher. Each event becomes
// one message on topic "<prefix>.<type>" with the event id as message UUID.
type Forwarder struct {
	publisher message.Publisher
	prefix    string
	logger    zerolog.Logger

	mu    sync.Mutex
	bus   *Bus
	subID SubscriptionID
}

// NewForwarder creates a forwarder publishing to pub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewForwarder(pub message.Publisher, topicPrefix string, logger zerolog.Logger) *Forwarder {
	return &Forwarder{
		publisher: pub,
		prefix:    topicPrefix,
		logger:    logger.With().Str("component", "forwarder").Logger(),
	}
}

// NewGoChannelPublisher returns the in-process Watermill pub/sub used when
// no external broker is configured.
func NewGoChannelPublisher(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
}

// Topic returns the topic for events of type t.
func (f *Forwarder) Topic(t Type) string {
	if f.prefix == "" {
		return string(t)
	}
	return f.prefix + "." + string(t)
}

// Attach subscribes the forwarder to every event on b.
func (f *Forwarder) Attach(b *Bus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bus = b
	f.subID = b.SubscribeAll("forwarder", f.Handle)
}

// Detach unsubscribes from the bus.
func (f *Forwarder) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bus != nil {
		f.bus.Unsubscribe(TypeAll, f.subID)
		f.bus = nil
	}
}

// Handle publishes e. It is a bus Handler.
func (f *Forwarder) Handle(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		metrics.EventsForwarded.WithLabelValues("error").Inc()
		return fmt.Errorf("marshal event %s: %w", e.ID, err)
	}

	msg := message.NewMessage(e.ID, payload)
	msg.Metadata.Set(MetadataEventType, string(e.Type))
	msg.Metadata.Set(MetadataUserID, e.UserID)
	msg.SetContext(ctx)

	if err := f.publisher.Publish(f.Topic(e.Type), msg); err != nil {
		metrics.EventsForwarded.WithLabelValues("error").Inc()
		return fmt.Errorf("forward event %s: %w", e.ID, err)
	}
	metrics.EventsForwarded.WithLabelValues("ok").Inc()
	return nil
}

// Close detaches and closes the publisher.
func (f *Forwarder) Close() error {
	f.Detach()
	return f.publisher.Close()
}
