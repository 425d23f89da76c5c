// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

// Package health probes the platform's external dependencies: the
// PostgreSQL database, the cache/broker, and the managed systemd units.
// Unlike the other swapops commands, all probes always run; a failing check
// does not short-circuit the rest, so the operator gets the full picture in
// one invocation.
package health

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // postgres driver for the database probe
	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/config"
	"github.com/moneyswap/swapops/internal/deploy"
)

// Check is the outcome of a single probe.
type Check struct {
	// Name identifies the probe ("database", "broker", "unit:gunicorn").
	Name string

	// OK reports whether the probe passed.
	OK bool

	// Detail is a human-readable status or failure description.
	Detail string
}

// Checker runs all health probes.
type Checker struct {
	cfg     *config.Config
	runner  command.Runner
	systemd *deploy.Systemd

	// pingDB is the database probe; replaced in tests.
	pingDB func(ctx context.Context) error
}

// NewChecker creates a Checker.
func NewChecker(cfg *config.Config, runner command.Runner) *Checker {
	c := &Checker{
		cfg:     cfg,
		runner:  runner,
		systemd: deploy.NewSystemd(runner),
	}
	c.pingDB = c.pingPostgres
	return c
}

// Run executes every probe and returns the results plus an error when any
// probe failed.
func (c *Checker) Run(ctx context.Context) ([]Check, error) {
	checks := []Check{
		c.checkDatabase(ctx),
		c.checkBroker(ctx),
	}
	for _, unit := range c.cfg.Deploy.Services {
		checks = append(checks, c.checkUnit(ctx, unit))
	}

	failed := 0
	for _, check := range checks {
		if !check.OK {
			failed++
		}
	}
	if failed > 0 {
		return checks, fmt.Errorf("%d of %d health checks failed", failed, len(checks))
	}
	return checks, nil
}

// checkDatabase probes PostgreSQL connectivity.
func (c *Checker) checkDatabase(ctx context.Context) Check {
	if err := c.pingDB(ctx); err != nil {
		return Check{Name: "database", OK: false, Detail: err.Error()}
	}
	return Check{Name: "database", OK: true, Detail: "connected"}
}

// checkBroker probes the cache/broker with a PING round-trip.
func (c *Checker) checkBroker(ctx context.Context) Check {
	out, err := c.runner.Output(ctx, command.Spec{
		Name: "broker-ping",
		Path: c.cfg.Redis.CLIBin,
		Args: []string{"-u", c.cfg.Redis.URL, "ping"},
	})
	if err != nil {
		return Check{Name: "broker", OK: false, Detail: err.Error()}
	}
	if out != "PONG" {
		return Check{Name: "broker", OK: false, Detail: fmt.Sprintf("unexpected reply %q", out)}
	}
	return Check{Name: "broker", OK: true, Detail: "PONG"}
}

// checkUnit probes one systemd unit's activation state.
func (c *Checker) checkUnit(ctx context.Context, unit string) Check {
	state, err := c.systemd.IsActive(ctx, unit)
	name := "unit:" + unit
	if err != nil && state == "unknown" {
		return Check{Name: name, OK: false, Detail: err.Error()}
	}
	return Check{Name: name, OK: state == "active", Detail: state}
}

// pingPostgres is the default database probe.
func (c *Checker) pingPostgres(ctx context.Context) error {
	db, err := sql.Open("postgres", c.cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck // short-lived probe connection

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}
