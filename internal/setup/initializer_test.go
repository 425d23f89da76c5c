// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package setup

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/config"
	"github.com/moneyswap/swapops/internal/sequence"
)

// fakeLedger implements LedgerProbe for testing
type fakeLedger struct {
	count int64
	err   error
}

func (f *fakeLedger) BlockCount(ctx context.Context) (int64, error) {
	return f.count, f.err
}

// testConfig returns a minimal config for initializer tests
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		Project: config.ProjectConfig{
			Root:    root,
			VenvDir: filepath.Join(root, "venv"),
		},
	}
}

// TestRunFreshSystem tests the full first-run sequence on an empty ledger
func TestRunFreshSystem(t *testing.T) {
	cfg := testConfig(t)
	runner := command.NewMockRunner()

	i := NewInitializer(cfg, runner, &fakeLedger{count: 0})
	if err := i.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"migrate", "init-ledger", "seed-agents", "collectstatic"}
	names := runner.RunNames()
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

// TestRunSkipsInitializedLedger tests that an already-initialized ledger is
// not re-created
func TestRunSkipsInitializedLedger(t *testing.T) {
	cfg := testConfig(t)
	runner := command.NewMockRunner()

	i := NewInitializer(cfg, runner, &fakeLedger{count: 42})
	if err := i.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range runner.RunNames() {
		if name == "init-ledger" {
			t.Fatal("init-ledger must be skipped when the ledger holds blocks")
		}
	}
	if len(runner.RunCalls) != 3 {
		t.Errorf("expected 3 commands (migrate, seed, collectstatic), got %v", runner.RunNames())
	}
}

// TestRunForceInit tests that force_init re-runs ledger initialization
func TestRunForceInit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Setup.ForceInit = true
	runner := command.NewMockRunner()

	i := NewInitializer(cfg, runner, &fakeLedger{count: 42})
	if err := i.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, name := range runner.RunNames() {
		if name == "init-ledger" {
			found = true
		}
	}
	if !found {
		t.Error("expected init-ledger to run with force_init set")
	}
}

// TestRunProbeFailureAborts tests that a failing ledger probe halts the
// sequence before seeding
func TestRunProbeFailureAborts(t *testing.T) {
	cfg := testConfig(t)
	runner := command.NewMockRunner()

	i := NewInitializer(cfg, runner, &fakeLedger{err: errors.New("connection refused")})
	err := i.Run(context.Background())
	if err == nil {
		t.Fatal("expected error from failing ledger probe")
	}

	var stepErr *sequence.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %T", err)
	}
	if stepErr.Step != "init-ledger" {
		t.Errorf("expected failing step init-ledger, got %s", stepErr.Step)
	}

	names := runner.RunNames()
	if len(names) != 1 || names[0] != "migrate" {
		t.Errorf("expected only migrate to have run, got %v", names)
	}
}

// TestRunMigrationFailureAborts tests strict ordering: nothing after a
// failed migration executes
func TestRunMigrationFailureAborts(t *testing.T) {
	cfg := testConfig(t)
	runner := command.NewMockRunner()
	runner.RunFunc = func(ctx context.Context, spec command.Spec) error {
		if spec.Name == "migrate" {
			return errors.New("relation already exists")
		}
		return nil
	}

	i := NewInitializer(cfg, runner, &fakeLedger{count: 0})
	if err := i.Run(context.Background()); err == nil {
		t.Fatal("expected error from failing migration")
	}

	names := runner.RunNames()
	if len(names) != 1 || names[0] != "migrate" {
		t.Errorf("expected execution to stop at migrate, got %v", names)
	}
}

// TestManageInvocation tests the manage.py command shape
func TestManageInvocation(t *testing.T) {
	cfg := testConfig(t)
	runner := command.NewMockRunner()

	i := NewInitializer(cfg, runner, &fakeLedger{})
	if err := i.Migrate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec := runner.RunCalls[0]
	if spec.Path != cfg.Project.VenvPython() {
		t.Errorf("expected virtualenv interpreter, got %s", spec.Path)
	}
	wantArgs := []string{cfg.Project.ManagePy(), "migrate", "--noinput"}
	if len(spec.Args) != len(wantArgs) {
		t.Fatalf("expected args %v, got %v", wantArgs, spec.Args)
	}
	for i := range wantArgs {
		if spec.Args[i] != wantArgs[i] {
			t.Errorf("arg %d: expected %s, got %s", i, wantArgs[i], spec.Args[i])
		}
	}
	if spec.Dir != cfg.Project.Root {
		t.Errorf("expected working directory %s, got %s", cfg.Project.Root, spec.Dir)
	}
}
