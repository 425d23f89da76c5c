// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package launcher

import (
	"context"

	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/logging"
)

// ProcessService adapts an external long-running process to suture's Serve
// pattern:
//  1. Starts the process and blocks while it runs.
//  2. On context cancellation the process receives SIGTERM (escalating to
//     SIGKILL after the runner's grace period) and Serve returns.
//  3. If the process exits on its own, the exit error is returned and
//     suture restarts the service according to its backoff policy.
type ProcessService struct {
	name   string
	spec   command.Spec
	runner command.Runner
}

// NewProcessService wraps the command described by spec as a supervised
// service.
func NewProcessService(name string, spec command.Spec, runner command.Runner) *ProcessService {
	return &ProcessService{name: name, spec: spec, runner: runner}
}

// Serve implements suture.Service.
func (s *ProcessService) Serve(ctx context.Context) error {
	logging.Info().
		Str("service", s.name).
		Str("command", s.spec.String()).
		Msg("Starting process")

	err := s.runner.Run(ctx, s.spec)

	if ctx.Err() != nil {
		// Shutdown path: the process was terminated on purpose.
		logging.Info().Str("service", s.name).Msg("Process stopped")
		return ctx.Err()
	}

	logging.Error().Err(err).Str("service", s.name).Msg("Process exited unexpectedly")
	return err
}

// String implements fmt.Stringer so suture logs a meaningful service name.
func (s *ProcessService) String() string {
	return s.name
}
