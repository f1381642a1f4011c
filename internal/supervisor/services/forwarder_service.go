// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package services

import (
	"context"

	"github.com/tomtom215/lunara/internal/events"
)

// ForwarderService attaches an events.Forwarder to the bus for as long as
// it runs. The forwarder's publisher is closed by its owner, not here, so
// a restarted service can attach again.
type ForwarderService struct {
	forwarder *events.Forwarder
	bus       *events.Bus
	name      string
}

// NewForwarderService creates the service.
func NewForwarderService(f *events.Forwarder, bus *events.Bus) *ForwarderService {
	return &ForwarderService{forwarder: f, bus: bus, name: "event-forwarder"}
}

// Serve implements suture.Service.
func (s *ForwarderService) Serve(ctx context.Context) error {
	s.forwarder.Attach(s.bus)
	defer s.forwarder.Detach()

	<-ctx.Done()
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *ForwarderService) String() string {
	return s.name
}
