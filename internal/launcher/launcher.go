// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

// Package launcher runs the platform's long-running processes under a
// suture supervision tree: the cache/broker daemon, the background task
// worker, the periodic task scheduler, and the web server.
//
// The launcher replaces the original detached-process startup script. The
// ordering contract is preserved (broker, worker, scheduler, then web
// server) and, as before, no service's startup is gated on an earlier
// service being healthy; supervision additionally restarts services that
// exit, which the script never did.
package launcher

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"

	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/config"
	"github.com/moneyswap/swapops/internal/logging"
)

// Launcher builds and serves the supervision tree.
type Launcher struct {
	cfg    *config.Config
	runner command.Runner
	tree   *Tree
}

// New creates a Launcher with the platform's four services registered.
func New(cfg *config.Config, runner command.Runner) *Launcher {
	tree := NewTree(logging.NewSlogLogger(), DefaultTreeConfig())

	l := &Launcher{cfg: cfg, runner: runner, tree: tree}

	tree.AddBrokerService(NewProcessService("redis", l.brokerSpec(), runner))
	tree.AddWorkerService(NewProcessService("celery-worker", l.workerSpec(), runner))
	tree.AddWorkerService(NewProcessService("celery-beat", l.schedulerSpec(), runner))
	tree.AddWebService(NewProcessService("gunicorn", l.webSpec(), runner))

	return l
}

// Run serves the tree in the foreground until ctx is canceled.
func (l *Launcher) Run(ctx context.Context) error {
	logging.Info().
		Str("bind", l.cfg.Web.Bind()).
		Msg("Starting supervised services: broker, worker, scheduler, web")

	err := l.tree.Serve(ctx)

	if unstopped, reportErr := l.tree.UnstoppedServiceReport(); reportErr == nil {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within shutdown timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// brokerSpec describes the cache/broker daemon. The port comes from the
// broker URL the application itself connects to.
func (l *Launcher) brokerSpec() command.Spec {
	return command.Spec{
		Name: "redis",
		Path: l.cfg.Redis.ServerBin,
		Args: []string{"--port", l.cfg.Redis.Port()},
	}
}

// workerSpec describes the background task worker.
func (l *Launcher) workerSpec() command.Spec {
	args := []string{
		"-A", l.cfg.Worker.App,
		"worker",
		"--loglevel", l.cfg.Worker.LogLevel,
	}
	if l.cfg.Worker.Concurrency > 0 {
		args = append(args, "--concurrency", strconv.Itoa(l.cfg.Worker.Concurrency))
	}

	return command.Spec{
		Name: "celery-worker",
		Path: l.venvBin(l.cfg.Worker.Bin),
		Args: args,
		Dir:  l.cfg.Project.Root,
	}
}

// schedulerSpec describes the periodic task scheduler with its persistent
// schedule store.
func (l *Launcher) schedulerSpec() command.Spec {
	return command.Spec{
		Name: "celery-beat",
		Path: l.venvBin(l.cfg.Worker.Bin),
		Args: []string{
			"-A", l.cfg.Worker.App,
			"beat",
			"--schedule", l.cfg.Worker.ScheduleFile,
			"--loglevel", l.cfg.Worker.LogLevel,
		},
		Dir: l.cfg.Project.Root,
	}
}

// webSpec describes the web server, bound to all interfaces on the
// configured port.
func (l *Launcher) webSpec() command.Spec {
	return command.Spec{
		Name: "gunicorn",
		Path: l.venvBin(l.cfg.Web.Bin),
		Args: []string{
			l.cfg.Web.Module,
			"--bind", l.cfg.Web.Bind(),
			"--workers", strconv.Itoa(l.cfg.Web.Workers),
		},
		Dir: l.cfg.Project.Root,
	}
}

// venvBin resolves an executable inside the virtualenv unless it is already
// an absolute path.
func (l *Launcher) venvBin(bin string) string {
	if filepath.IsAbs(bin) {
		return bin
	}
	return filepath.Join(l.cfg.Project.VenvDir, "bin", bin)
}
