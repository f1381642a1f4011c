// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor is nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
	}

	custom := TreeConfig{FailureThreshold: 2, FailureBackoff: time.Second}
	tree, _ = NewSupervisorTree(quietLogger(), custom)
	if tree.config.FailureThreshold != 2 || tree.config.FailureBackoff != time.Second {
		t.Errorf("custom values overwritten: %+v", tree.config)
	}
	if tree.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want default", tree.config.ShutdownTimeout)
	}
}

func TestSupervisorTree_StartsEveryLayer(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	layers := map[string]func(suture.Service) suture.ServiceToken{
		"data":      tree.AddDataService,
		"messaging": tree.AddMessagingService,
		"api":       tree.AddAPIService,
	}
	stubs := map[string]*stubService{}
	for name, add := range layers {
		stubs[name] = newStubService(name, 0)
		add(stubs[name])
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down")
	}

	for name, s := range stubs {
		if s.starts.Load() < 1 {
			t.Errorf("%s service was not started", name)
		}
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failing := newStubService("failing", 2)
	stable := newStubService("stable", 0)
	tree.AddMessagingService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	errCh := tree.ServeBackground(ctx)
	time.Sleep(200 * time.Millisecond)

	if got := failing.starts.Load(); got < 3 {
		t.Errorf("failing service started %d times, want at least 3", got)
	}
	if stable.starts.Load() != 1 {
		t.Errorf("stable service started %d times, want 1", stable.starts.Load())
	}

	cancel()
	<-errCh
}

func TestSupervisorTree_RemoveMessagingService(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	token := tree.AddMessagingService(newStubService("watcher", 0))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	time.Sleep(50 * time.Millisecond)

	if err := tree.RemoveMessagingService(token); err != nil {
		t.Errorf("RemoveMessagingService: %v", err)
	}

	cancel()
	<-errCh
}
