// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/config"
	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/logging"
)

// natsShutdownTimeout bounds the embedded NATS server shutdown.
const natsShutdownTimeout = 5 * time.Second

// ForwarderComponents holds the optional event forwarding pipeline.
type ForwarderComponents struct {
	Forwarder *events.Forwarder
	embedded  *events.EmbeddedNATS
}

// Close closes the publisher and stops the embedded server, if any.
func (c *ForwarderComponents) Close() {
	if c == nil {
		return
	}
	if c.Forwarder != nil {
		if err := c.Forwarder.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing event publisher")
		}
	}
	if c.embedded != nil {
		ctx, cancel := context.WithTimeout(context.Background(), natsShutdownTimeout)
		defer cancel()
		if err := c.embedded.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("Error stopping embedded NATS server")
		}
	}
}

// initForwarder builds the event forwarder. It returns nil when forwarding
// is disabled. The publisher is chosen in this order: embedded NATS server,
// external NATS at events.nats_url, in-process gochannel.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initForwarder(cfg *config.Config, logger zerolog.Logger) (*ForwarderComponents, error) {
	if !cfg.Events.ForwardEnabled {
		logger.Info().Msg("Event forwarding disabled (events.forward_enabled=false)")
		return nil, nil
	}

	wmLogger := events.NewWatermillLogger(logger)
	components := &ForwarderComponents{}

	url := cfg.Events.NATSURL
	if cfg.Events.NATSEmbedded {
		embedded, err := events.StartEmbeddedNATS()
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		components.embedded = embedded
		url = embedded.ClientURL()
		logger.Info().Str("url", url).Msg("Embedded NATS server started")
	}

	var pub message.Publisher
	if url != "" {
		natsPub, err := events.NewNATSPublisher(url, wmLogger)
		if err != nil {
			components.Close()
			return nil, fmt.Errorf("connect NATS publisher: %w", err)
		}
		pub = natsPub
		logger.Info().Str("url", url).Str("topic_prefix", cfg.Events.TopicPrefix).Msg("Forwarding events to NATS")
	} else {
		pub = events.NewGoChannelPublisher(wmLogger)
		logger.Info().Str("topic_prefix", cfg.Events.TopicPrefix).Msg("Forwarding events to in-process pub/sub")
	}

	components.Forwarder = events.NewForwarder(pub, cfg.Events.TopicPrefix, logger)
	return components, nil
}
