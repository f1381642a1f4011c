// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

//go:build !nats

package events

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// NATSAvailable reports whether the binary was built with NATS support.
const NATSAvailable = false

var errNATSUnavailable = errors.New("NATS transport not available: build with -tags=nats")

// NewNATSPublisher returns an error when NATS support is not compiled in.
func NewNATSPublisher(string, watermill.LoggerAdapter) (message.Publisher, error) {
	return nil, errNATSUnavailable
}

// EmbeddedNATS is a stub when NATS support is not compiled in.
type EmbeddedNATS struct{}

// StartEmbeddedNATS returns an error when NATS support is not compiled in.
func StartEmbeddedNATS() (*EmbeddedNATS, error) {
	return nil, errNATSUnavailable
}

// ClientURL returns an empty string.
func (*EmbeddedNATS) ClientURL() string { return "" }

// Shutdown is a no-op.
func (*EmbeddedNATS) Shutdown(context.Context) error { return nil }
