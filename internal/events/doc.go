// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package events provides the in-process domain event bus.

# Bus

Handlers subscribe to one event type, or to all types with SubscribeAll.
Publish runs every matching handler concurrently and returns once each has
returned, failed, panicked or exceeded Config.HandlerTimeout. Handler
failures are logged and counted; they never reach the publisher or affect
sibling handlers. A handler still running at its timeout is abandoned.

The bus keeps the last Config.LogSize events for diagnostics:

	bus := events.NewBus(events.DefaultConfig(), logger)
	id := bus.Subscribe(events.TypeFoodLogged, "updater", updater.HandleFoodLogged)
	bus.Publish(ctx, events.New(events.TypeFoodLogged, userID, events.FoodLogged{...}))
	bus.Unsubscribe(events.TypeFoodLogged, id)

# Forwarding

Forwarder mirrors every event to a Watermill message.Publisher. The
in-process default is a gochannel pub/sub; building with -tags=nats enables
NewNATSPublisher and an optional embedded NATS server.
*/
package events
