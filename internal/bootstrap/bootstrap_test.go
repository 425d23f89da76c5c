// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/config"
	"github.com/moneyswap/swapops/internal/sequence"
)

// testConfig returns a config rooted in a temp directory
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	return &config.Config{
		Project: config.ProjectConfig{
			Root:             root,
			VenvDir:          filepath.Join(root, "venv"),
			PythonBin:        "python3",
			RequirementsFile: filepath.Join(root, "requirements.txt"),
			EnvFile:          filepath.Join(root, ".env"),
			EnvTemplate:      filepath.Join(root, ".env.example"),
		},
	}
}

// TestBootstrapRunOrder tests that the full sequence runs in order
func TestBootstrapRunOrder(t *testing.T) {
	cfg := testConfig(t)
	runner := command.NewMockRunner()
	runner.OutputFunc = func(ctx context.Context, spec command.Spec) (string, error) {
		return "Python 3.10.2", nil
	}

	b := New(cfg, runner)
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(runner.OutputCalls) != 1 {
		t.Fatalf("expected 1 version probe, got %d", len(runner.OutputCalls))
	}
	if runner.OutputCalls[0].Path != "python3" {
		t.Errorf("expected probe via python3, got %s", runner.OutputCalls[0].Path)
	}

	names := runner.RunNames()
	want := []string{"create-venv", "install-deps"}
	if len(names) != len(want) {
		t.Fatalf("expected run calls %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("run call %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

// TestBootstrapOldRuntimeAborts tests that an old interpreter halts the
// sequence before the virtualenv is created
func TestBootstrapOldRuntimeAborts(t *testing.T) {
	cfg := testConfig(t)
	runner := command.NewMockRunner()
	runner.OutputFunc = func(ctx context.Context, spec command.Spec) (string, error) {
		return "Python 3.7.9", nil
	}

	b := New(cfg, runner)
	err := b.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for runtime below minimum")
	}

	var stepErr *sequence.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %T", err)
	}
	if stepErr.Step != "check-runtime" {
		t.Errorf("expected failing step check-runtime, got %s", stepErr.Step)
	}
	if len(runner.RunCalls) != 0 {
		t.Errorf("expected no commands after failed version check, got %v", runner.RunNames())
	}
}

// TestBootstrapProbeFailureAborts tests that an unavailable interpreter
// halts the sequence
func TestBootstrapProbeFailureAborts(t *testing.T) {
	cfg := testConfig(t)
	runner := command.NewMockRunner()
	runner.OutputFunc = func(ctx context.Context, spec command.Spec) (string, error) {
		return "", errors.New("executable not found")
	}

	b := New(cfg, runner)
	if err := b.Run(context.Background()); err == nil {
		t.Fatal("expected error when interpreter is missing")
	}
	if len(runner.RunCalls) != 0 {
		t.Errorf("expected no commands after failed probe, got %v", runner.RunNames())
	}
}

// TestCreateVenvSkipsExisting tests that an existing virtualenv is not
// recreated
func TestCreateVenvSkipsExisting(t *testing.T) {
	cfg := testConfig(t)

	binDir := filepath.Join(cfg.Project.VenvDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(binDir, "python"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	runner := command.NewMockRunner()
	b := New(cfg, runner)
	if err := b.CreateVenv(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.RunCalls) != 0 {
		t.Errorf("expected no venv creation command, got %v", runner.RunNames())
	}
}

// TestInstallDepsSpec tests the pip invocation
func TestInstallDepsSpec(t *testing.T) {
	cfg := testConfig(t)
	runner := command.NewMockRunner()

	b := New(cfg, runner)
	if err := b.InstallDeps(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(runner.RunCalls) != 1 {
		t.Fatalf("expected 1 run call, got %d", len(runner.RunCalls))
	}
	spec := runner.RunCalls[0]
	if spec.Path != cfg.Project.VenvPip() {
		t.Errorf("expected pip at %s, got %s", cfg.Project.VenvPip(), spec.Path)
	}
	if len(spec.Args) != 3 || spec.Args[0] != "install" || spec.Args[1] != "-r" {
		t.Errorf("unexpected pip args: %v", spec.Args)
	}
	if spec.Dir != cfg.Project.Root {
		t.Errorf("expected working directory %s, got %s", cfg.Project.Root, spec.Dir)
	}
}
