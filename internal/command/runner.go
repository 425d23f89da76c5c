// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

// Package command abstracts external process execution.
//
// Every external tool swapops drives (the Python interpreter, pip, manage.py,
// pg_dump, git, systemctl, redis-server, celery, gunicorn) goes through the
// Runner interface so that command sequences can be tested without touching
// the host system.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Spec describes a single external command invocation.
type Spec struct {
	// Name labels the command in logs and errors (e.g. "migrate").
	Name string

	// Path is the executable; Args are its arguments (excluding Path).
	Path string
	Args []string

	// Dir is the working directory; empty means the current directory.
	Dir string

	// Env holds extra KEY=VALUE entries appended to the inherited
	// process environment.
	Env []string

	// Stdout and Stderr receive the command's output. Nil streams inherit
	// the swapops process streams so operator-facing tools (pip, manage.py)
	// stay visible on the terminal.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the invocation for logging.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Path
	}
	return s.Path + " " + strings.Join(s.Args, " ")
}

// Runner executes external commands.
type Runner interface {
	// Run executes the command and blocks until it exits. Cancelling the
	// context terminates the process. A non-zero exit status is an error.
	Run(ctx context.Context, spec Spec) error

	// Output executes the command and returns its combined stdout+stderr,
	// trimmed. Used for probes (python3 --version, systemctl is-active).
	Output(ctx context.Context, spec Spec) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// GracePeriod is how long a cancelled process gets between SIGTERM and
	// SIGKILL. Zero means the suture tree default of 10 seconds.
	GracePeriod time.Duration
}

// NewExecRunner returns an ExecRunner with the default grace period.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{GracePeriod: 10 * time.Second}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) error {
	cmd := r.build(ctx, spec)

	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return wrapRunError(spec, err)
	}
	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, spec Spec) (string, error) {
	cmd := r.build(ctx, spec)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Run(); err != nil {
		return strings.TrimSpace(buf.String()), wrapRunError(spec, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// build constructs the exec.Cmd with graceful termination semantics:
// context cancellation sends SIGTERM, escalating to SIGKILL after the
// grace period.
func (r *ExecRunner) build(ctx context.Context, spec Spec) *exec.Cmd {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr

	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = r.GracePeriod
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 10 * time.Second
	}

	return cmd
}

// wrapRunError attaches the command label and exit status to an exec error.
func wrapRunError(spec Spec, err error) error {
	name := spec.Name
	if name == "" {
		name = spec.Path
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s (%s) exited with status %d: %w", name, spec.String(), exitErr.ExitCode(), err)
	}
	return fmt.Errorf("%s (%s) failed: %w", name, spec.String(), err)
}
