// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package deploy

import (
	"context"
	"errors"
	"testing"

	"github.com/moneyswap/swapops/internal/command"
)

// TestSystemdRestart tests the restart invocation
func TestSystemdRestart(t *testing.T) {
	runner := command.NewMockRunner()
	s := NewSystemd(runner)

	if err := s.Restart(context.Background(), "gunicorn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec := runner.RunCalls[0]
	if spec.Path != "systemctl" {
		t.Errorf("expected systemctl, got %s", spec.Path)
	}
	if len(spec.Args) != 2 || spec.Args[0] != "restart" || spec.Args[1] != "gunicorn" {
		t.Errorf("unexpected args: %v", spec.Args)
	}
}

// TestSystemdRestartFailure tests error propagation
func TestSystemdRestartFailure(t *testing.T) {
	runner := command.NewMockRunner()
	runner.RunFunc = func(ctx context.Context, spec command.Spec) error {
		return errors.New("Job for gunicorn.service failed")
	}

	s := NewSystemd(runner)
	if err := s.Restart(context.Background(), "gunicorn"); err == nil {
		t.Error("expected error from failed restart")
	}
}

// TestSystemdIsActive tests activation state reporting
func TestSystemdIsActive(t *testing.T) {
	tests := []struct {
		name      string
		out       string
		err       error
		wantState string
		wantErr   bool
	}{
		{name: "active", out: "active", wantState: "active"},
		// systemctl is-active exits non-zero for inactive units but still
		// prints the state.
		{name: "inactive", out: "inactive", err: errors.New("exit status 3"), wantState: "inactive"},
		{name: "failed", out: "failed", err: errors.New("exit status 3"), wantState: "failed"},
		{name: "no output", out: "", err: errors.New("executable not found"), wantState: "unknown", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := command.NewMockRunner()
			runner.OutputFunc = func(ctx context.Context, spec command.Spec) (string, error) {
				return tt.out, tt.err
			}

			s := NewSystemd(runner)
			state, err := s.IsActive(context.Background(), "gunicorn")
			if state != tt.wantState {
				t.Errorf("expected state %q, got %q", tt.wantState, state)
			}
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
