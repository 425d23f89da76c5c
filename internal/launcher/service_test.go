// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package launcher

import (
	"context"
	"errors"
	"testing"

	"github.com/moneyswap/swapops/internal/command"
)

// TestProcessServeReturnsExitError tests that an unexpected process exit is
// reported so the supervisor restarts the service
func TestProcessServeReturnsExitError(t *testing.T) {
	exit := errors.New("exit status 1")
	runner := command.NewMockRunner()
	runner.RunFunc = func(ctx context.Context, spec command.Spec) error {
		return exit
	}

	svc := NewProcessService("redis", command.Spec{Name: "redis", Path: "redis-server"}, runner)
	err := svc.Serve(context.Background())
	if !errors.Is(err, exit) {
		t.Errorf("expected exit error to propagate, got %v", err)
	}
}

// TestProcessServeCleanShutdown tests that cancellation is reported as a
// clean stop, not a failure
func TestProcessServeCleanShutdown(t *testing.T) {
	runner := command.NewMockRunner()
	runner.RunFunc = func(ctx context.Context, spec command.Spec) error {
		<-ctx.Done()
		return errors.New("signal: terminated")
	}

	ctx, cancel := context.WithCancel(context.Background())
	svc := NewProcessService("gunicorn", command.Spec{Name: "gunicorn", Path: "gunicorn"}, runner)

	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled on shutdown, got %v", err)
	}
}

// TestProcessServiceString tests the supervisor-facing name
func TestProcessServiceString(t *testing.T) {
	svc := NewProcessService("celery-beat", command.Spec{}, command.NewMockRunner())
	if svc.String() != "celery-beat" {
		t.Errorf("expected celery-beat, got %s", svc.String())
	}
}
