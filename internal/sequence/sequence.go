// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

// Package sequence executes named steps in strict order with
// abort-on-first-error semantics, the Go equivalent of a shell script
// running under `set -e`: the first failing step terminates the whole
// sequence and no later step runs.
package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/moneyswap/swapops/internal/logging"
)

// Step is a single named unit of work in a sequence.
type Step struct {
	// Name identifies the step in logs and errors.
	Name string

	// Run performs the step. A non-nil error aborts the sequence.
	Run func(ctx context.Context) error
}

// StepError reports which step failed and at what position.
type StepError struct {
	// Step is the failing step's name.
	Step string

	// Index is the failing step's zero-based position in the sequence.
	Index int

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %q (%d) failed: %v", e.Step, e.Index+1, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Execute runs steps in order, stopping at the first failure. It returns a
// *StepError identifying the failed step, or nil when every step succeeded.
// Context cancellation between steps also aborts the sequence.
func Execute(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: step.Name, Index: i, Err: err}
		}

		started := time.Now()
		logging.Info().
			Str("step", step.Name).
			Int("position", i+1).
			Int("total", len(steps)).
			Msg("Step starting")

		if err := step.Run(ctx); err != nil {
			logging.Error().
				Err(err).
				Str("step", step.Name).
				Dur("elapsed", time.Since(started)).
				Msg("Step failed, aborting remaining steps")
			return &StepError{Step: step.Name, Index: i, Err: err}
		}

		logging.Info().
			Str("step", step.Name).
			Dur("elapsed", time.Since(started)).
			Msg("Step completed")
	}
	return nil
}
