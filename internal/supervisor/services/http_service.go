// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer is the lifecycle subset of *http.Server.
//
// Satisfied by *http.Server from net/http:
//   - ListenAndServe() error
//   - Shutdown(ctx context.Context) error
//
// Tests substitute a fake that blocks until Shutdown.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs the Lunara REST API under supervision.
//
// It translates http.Server's blocking ListenAndServe into suture's
// context-aware Serve:
//
//  1. ListenAndServe runs in a goroutine
//  2. Serve waits for context cancellation or a server error
//  3. On cancellation Shutdown drains open requests within the timeout
//  4. The drain hook, when set, then waits for work those requests left
//     running, such as recommendation.shown publishes
//
// Example usage:
//
//	server := &http.Server{Addr: ":8080", Handler: router}
//	httpSvc := services.NewHTTPServerService(server, 10*time.Second).WithDrain(svc.Wait)
//	tree.AddAPIService(httpSvc)
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	drain           func()
	name            string
}

// NewHTTPServerService creates the service.
//
// shutdownTimeout bounds how long open requests may take to finish during
// graceful shutdown. A non-positive value uses 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
}

// WithDrain sets a hook run after a successful Shutdown. It is not run when
// the server fails on its own, since suture restarts the service then.
func (h *HTTPServerService) WithDrain(drain func()) *HTTPServerService {
	h.drain = drain
	return h
}

// Serve implements suture.Service.
//
// Returns ctx.Err() after a graceful shutdown and an error when the server
// fails to start or crashes. http.ErrServerClosed is expected on shutdown
// and is not reported.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	// ListenAndServe blocks
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		// Bind failure or crash
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// ctx is already canceled, so shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh

		if h.drain != nil {
			h.drain()
		}
		return ctx.Err()
	}
}

// String implements fmt.Stringer. Suture uses it to identify the service
// in log messages.
func (h *HTTPServerService) String() string {
	return h.name
}
