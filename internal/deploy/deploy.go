// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

// Package deploy sequences a production deployment.
//
// The sequence is strictly ordered and aborts on the first failure, leaving
// later steps unexecuted. There is no rollback: a mid-sequence failure can
// leave old code running under new dependencies (or the reverse) until the
// operator intervenes, which matches the platform's original deploy
// procedure.
package deploy

import (
	"context"

	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/config"
	"github.com/moneyswap/swapops/internal/sequence"
)

// Sequencer runs the production deploy sequence.
type Sequencer struct {
	cfg     *config.Config
	runner  command.Runner
	systemd *Systemd
}

// NewSequencer creates a deploy Sequencer.
func NewSequencer(cfg *config.Config, runner command.Runner) *Sequencer {
	return &Sequencer{cfg: cfg, runner: runner, systemd: NewSystemd(runner)}
}

// Run executes the deploy sequence:
// pull, install, migrate, collectstatic, restart services, clear cache.
func (s *Sequencer) Run(ctx context.Context) error {
	steps := []sequence.Step{
		{Name: "pull", Run: s.Pull},
		{Name: "install-deps", Run: s.InstallDeps},
		{Name: "migrate", Run: s.Migrate},
		{Name: "collectstatic", Run: s.CollectStatic},
	}
	for _, unit := range s.cfg.Deploy.Services {
		steps = append(steps, restartStep(s.systemd, unit))
	}
	steps = append(steps, sequence.Step{Name: "clear-cache", Run: s.ClearCache})

	return sequence.Execute(ctx, steps)
}

// restartStep builds the restart step for one systemd unit.
func restartStep(systemd *Systemd, unit string) sequence.Step {
	return sequence.Step{
		Name: "restart-" + unit,
		Run: func(ctx context.Context) error {
			return systemd.Restart(ctx, unit)
		},
	}
}

// Pull fetches the latest source from the configured remote and branch.
func (s *Sequencer) Pull(ctx context.Context) error {
	return s.runner.Run(ctx, command.Spec{
		Name: "pull",
		Path: s.cfg.Deploy.GitBin,
		Args: []string{"pull", s.cfg.Deploy.Remote, s.cfg.Deploy.Branch},
		Dir:  s.cfg.Project.Root,
	})
}

// InstallDeps re-installs the pinned dependency set.
func (s *Sequencer) InstallDeps(ctx context.Context) error {
	return s.runner.Run(ctx, command.Spec{
		Name: "install-deps",
		Path: s.cfg.Project.VenvPip(),
		Args: []string{"install", "-r", s.cfg.Project.RequirementsFile},
		Dir:  s.cfg.Project.Root,
	})
}

// Migrate applies schema migrations.
func (s *Sequencer) Migrate(ctx context.Context) error {
	return s.manage(ctx, "migrate", "migrate", "--noinput")
}

// CollectStatic gathers static assets for serving.
func (s *Sequencer) CollectStatic(ctx context.Context) error {
	return s.manage(ctx, "collectstatic", "collectstatic", "--noinput")
}

// ClearCache invokes the application-level cache clear after services are
// back up on the new code.
func (s *Sequencer) ClearCache(ctx context.Context) error {
	return s.manage(ctx, "clear-cache", "clear_cache")
}

// manage invokes a manage.py command with the virtualenv interpreter from
// the project root.
func (s *Sequencer) manage(ctx context.Context, name, subcommand string, args ...string) error {
	return s.runner.Run(ctx, command.Spec{
		Name: name,
		Path: s.cfg.Project.VenvPython(),
		Args: append([]string{s.cfg.Project.ManagePy(), subcommand}, args...),
		Dir:  s.cfg.Project.Root,
	})
}
