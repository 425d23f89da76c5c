// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

// Package bootstrap creates the application's isolated runtime environment.
//
// The bootstrap sequence is strictly ordered and aborts on the first failure:
//  1. Verify the system Python interpreter meets the minimum version.
//  2. Create the virtualenv (skipped when it already exists).
//  3. Install the pinned dependency set into the virtualenv.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/config"
	"github.com/moneyswap/swapops/internal/logging"
	"github.com/moneyswap/swapops/internal/sequence"
)

// Bootstrapper prepares the application runtime environment.
type Bootstrapper struct {
	cfg    *config.Config
	runner command.Runner
}

// New creates a Bootstrapper.
func New(cfg *config.Config, runner command.Runner) *Bootstrapper {
	return &Bootstrapper{cfg: cfg, runner: runner}
}

// Run executes the full bootstrap sequence.
func (b *Bootstrapper) Run(ctx context.Context) error {
	return sequence.Execute(ctx, []sequence.Step{
		{Name: "check-runtime", Run: b.CheckRuntime},
		{Name: "create-venv", Run: b.CreateVenv},
		{Name: "install-deps", Run: b.InstallDeps},
	})
}

// CheckRuntime verifies the system interpreter meets MinRuntimeVersion.
func (b *Bootstrapper) CheckRuntime(ctx context.Context) error {
	out, err := b.runner.Output(ctx, command.Spec{
		Name: "python-version",
		Path: b.cfg.Project.PythonBin,
		Args: []string{"--version"},
	})
	if err != nil {
		return fmt.Errorf("cannot determine runtime version (is %s installed?): %w",
			b.cfg.Project.PythonBin, err)
	}

	version, err := ParseRuntimeVersion(out)
	if err != nil {
		return err
	}

	if !version.AtLeast(MinRuntimeVersion) {
		return fmt.Errorf("runtime version %s is too old: %d.%d or newer is required",
			version, MinRuntimeVersion.Major, MinRuntimeVersion.Minor)
	}

	logging.Info().Str("version", version.String()).Msg("Runtime version check passed")
	return nil
}

// CreateVenv creates the virtualenv unless one already exists.
func (b *Bootstrapper) CreateVenv(ctx context.Context) error {
	if _, err := os.Stat(b.cfg.Project.VenvPython()); err == nil {
		logging.Info().Str("dir", b.cfg.Project.VenvDir).Msg("Virtualenv already exists, skipping creation")
		return nil
	}

	return b.runner.Run(ctx, command.Spec{
		Name: "create-venv",
		Path: b.cfg.Project.PythonBin,
		Args: []string{"-m", "venv", b.cfg.Project.VenvDir},
		Dir:  b.cfg.Project.Root,
	})
}

// InstallDeps installs the pinned dependency set with the virtualenv pip.
func (b *Bootstrapper) InstallDeps(ctx context.Context) error {
	return b.runner.Run(ctx, command.Spec{
		Name: "install-deps",
		Path: b.cfg.Project.VenvPip(),
		Args: []string{"install", "-r", b.cfg.Project.RequirementsFile},
		Dir:  b.cfg.Project.Root,
	})
}
