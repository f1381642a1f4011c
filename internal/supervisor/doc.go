// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package supervisor runs the long-lived services of the server under a suture
v4 supervisor tree.

	RootSupervisor ("lunara")
	├── DataSupervisor ("data-layer")
	│   └── BadgerGCService
	├── MessagingSupervisor ("messaging-layer")
	│   ├── PhaseWatcherService
	│   └── ForwarderService (if events.forward_enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff. Each layer counts failures on
its own, so a failing watcher never takes the HTTP server down.

Supervisor events are logged through sutureslog. Pass the slog bridge from
the logging package so they end up in the zerolog stream:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout).WithDrain(svc.Wait))
	return tree.Serve(ctx)
*/
package supervisor
