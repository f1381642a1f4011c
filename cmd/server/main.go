// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/api"
	"github.com/tomtom215/lunara/internal/config"
	"github.com/tomtom215/lunara/internal/edgecase"
	"github.com/tomtom215/lunara/internal/events"
	"github.com/tomtom215/lunara/internal/feedback"
	"github.com/tomtom215/lunara/internal/logging"
	"github.com/tomtom215/lunara/internal/service"
	"github.com/tomtom215/lunara/internal/supervisor"
	"github.com/tomtom215/lunara/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("scoring_policy", cfg.Feedback.ScoringPolicy).
		Bool("forward_events", cfg.Events.ForwardEnabled).
		Msg("Starting Lunara with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logging.Logger()); err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Lunara stopped with error")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// run wires every component and blocks until ctx is canceled and the
// supervisor tree has stopped. Stores are closed on return.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	stores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	bus := events.NewBus(events.Config{
		LogSize:        cfg.Events.LogSize,
		HandlerTimeout: cfg.Events.HandlerTimeout,
	}, logger)

	policy, err := feedback.NewPolicy(cfg.Feedback.ScoringPolicy)
	if err != nil {
		return err
	}
	feedback.Register(bus, feedback.Handlers{
		Updater:      feedback.NewUpdater(stores.Preferences, policy, logger),
		Gamification: feedback.NewGamificationHandler(stores.Memory, bus, logger),
		Notifications: feedback.NewNotificationListener(
			feedback.NewLogSink(cfg.Feedback.NotifyRate, cfg.Feedback.NotifyBurst, logger),
			logger,
		),
		NotifyGoals: true,
	})
	logging.Info().Str("policy", policy.Name()).Msg("Feedback handlers registered")

	forwarding, err := initForwarder(cfg, logger)
	if err != nil {
		return err
	}
	// The forwarder service detaches on stop; the publisher is closed here.
	defer forwarding.Close()

	engine, err := initEngine(cfg, logger)
	if err != nil {
		return err
	}

	svc := service.New(service.Deps{
		Users:       stores.Memory,
		Cycles:      stores.Memory,
		Foods:       stores.Memory,
		Logs:        stores.Memory,
		Preferences: stores.Preferences,
		Feedback:    stores.Feedback,
		Stats:       stores.Memory,
		Engine:      engine,
		Detector:    edgecase.NewDetector(stores.Memory, stores.Memory, stores.Memory, logger),
		Analyzer:    feedback.NewAnalyzer(stores.Feedback, stores.Preferences, cfg.Feedback.AnalysisWindow),
		Publisher:   bus,
	}, service.Config{
		DeficiencyRatio: cfg.Recommend.DeficiencyRatio,
		CandidateLimit:  cfg.Recommend.CandidateLimit,
	}, logger)
	// Let background publishes finish before the stores close.
	defer svc.Wait()

	handler := api.NewHandler(svc, map[string]api.HealthCheck{
		"feedback_store":   stores.Feedback.Ping,
		"preference_store": stores.pingBadger,
	}, nil)
	router := api.NewRouter(handler, &api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		CORSAllowedMethods: api.DefaultMiddlewareConfig().CORSAllowedMethods,
		CORSAllowedHeaders: api.DefaultMiddlewareConfig().CORSAllowedHeaders,
		CORSMaxAge:         api.DefaultMiddlewareConfig().CORSMaxAge,
		RateLimitRequests:  cfg.Server.RateLimitRequests,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
		RateLimitDisabled:  cfg.Server.RateLimitDisabled,
	}, logger)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// Data layer services
	tree.AddDataService(services.NewBadgerGCService(stores.Badger, 0, 0, logger))

	// Messaging layer services
	tree.AddMessagingService(services.NewPhaseWatcherService(
		stores.Memory, stores.Memory, bus,
		services.PhaseWatcherConfig{Interval: cfg.Watcher.Interval},
		logger,
	))
	if forwarding != nil {
		tree.AddMessagingService(services.NewForwarderService(forwarding.Forwarder, bus))
		logging.Info().Msg("Event forwarder added to supervisor tree")
	}

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout).WithDrain(svc.Wait))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Blocks until the signal context is canceled and the tree has stopped
	treeErr := <-errCh
	if errors.Is(treeErr, context.Canceled) {
		treeErr = nil
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	for _, u := range unstopped {
		logging.Warn().Str("service", u.Name).Msg("Service failed to stop")
	}

	if treeErr != nil {
		return fmt.Errorf("supervisor tree: %w", treeErr)
	}
	return nil
}
