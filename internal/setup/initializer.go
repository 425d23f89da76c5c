// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

// Package setup performs first-run initialization of the application.
//
// The sequence mirrors the platform's original setup procedure and aborts on
// the first failing step:
//  1. schema migration
//  2. ledger (blockchain) initialization
//  3. reference-data seeding (agents)
//  4. static asset collection
//
// The environment-file guard (config.EnsureEnvFile) runs before any of this;
// a freshly created env file halts the whole command with a non-zero exit so
// the system can never be initialized with template placeholder values.
package setup

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // postgres driver for the ledger probe
	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/config"
	"github.com/moneyswap/swapops/internal/logging"
	"github.com/moneyswap/swapops/internal/sequence"
)

// LedgerProbe reports how many blocks the ledger currently holds.
// It guards the initialization step against accidental re-runs, which wipe
// and re-create the chain.
type LedgerProbe interface {
	BlockCount(ctx context.Context) (int64, error)
}

// Initializer runs the first-run setup sequence.
type Initializer struct {
	cfg    *config.Config
	runner command.Runner
	ledger LedgerProbe
}

// NewInitializer creates an Initializer. A nil ledger probe defaults to a
// direct PostgreSQL query against the application's block table.
func NewInitializer(cfg *config.Config, runner command.Runner, ledger LedgerProbe) *Initializer {
	if ledger == nil {
		ledger = &postgresLedgerProbe{dsn: cfg.Database.DSN()}
	}
	return &Initializer{cfg: cfg, runner: runner, ledger: ledger}
}

// Run executes the setup sequence in strict order.
func (i *Initializer) Run(ctx context.Context) error {
	return sequence.Execute(ctx, []sequence.Step{
		{Name: "migrate", Run: i.Migrate},
		{Name: "init-ledger", Run: i.InitLedger},
		{Name: "seed-agents", Run: i.SeedAgents},
		{Name: "collectstatic", Run: i.CollectStatic},
	})
}

// Migrate applies schema migrations.
func (i *Initializer) Migrate(ctx context.Context) error {
	return i.manage(ctx, "migrate", "migrate", "--noinput")
}

// InitLedger creates the genesis block. When the ledger already holds blocks
// the step is skipped unless setup.force_init is set: re-initialization is
// destructive and must be an explicit operator decision.
func (i *Initializer) InitLedger(ctx context.Context) error {
	count, err := i.ledger.BlockCount(ctx)
	if err != nil {
		return fmt.Errorf("ledger probe failed: %w", err)
	}

	if count > 0 && !i.cfg.Setup.ForceInit {
		logging.Warn().
			Int64("blocks", count).
			Msg("Ledger already initialized, skipping (set SETUP_FORCE_INIT=true to re-initialize)")
		return nil
	}

	if count > 0 {
		logging.Warn().Int64("blocks", count).Msg("Re-initializing ledger, existing chain will be replaced")
	}
	return i.manage(ctx, "init-ledger", "init_blockchain", "--noinput")
}

// SeedAgents loads the initial agent reference data. The underlying
// management command is idempotent (get-or-create per agent).
func (i *Initializer) SeedAgents(ctx context.Context) error {
	return i.manage(ctx, "seed-agents", "seed_agents")
}

// CollectStatic gathers static assets for serving.
func (i *Initializer) CollectStatic(ctx context.Context) error {
	return i.manage(ctx, "collectstatic", "collectstatic", "--noinput")
}

// manage invokes a manage.py command with the virtualenv interpreter from
// the project root.
func (i *Initializer) manage(ctx context.Context, name, subcommand string, args ...string) error {
	return i.runner.Run(ctx, command.Spec{
		Name: name,
		Path: i.cfg.Project.VenvPython(),
		Args: append([]string{i.cfg.Project.ManagePy(), subcommand}, args...),
		Dir:  i.cfg.Project.Root,
	})
}

// postgresLedgerProbe counts rows in the application's block table.
type postgresLedgerProbe struct {
	dsn string
}

// BlockCount implements LedgerProbe. A missing block table (fresh database,
// migrations just applied) counts as zero blocks.
func (p *postgresLedgerProbe) BlockCount(ctx context.Context) (int64, error) {
	db, err := sql.Open("postgres", p.dsn)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck // read-only connection

	var exists bool
	err = db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'swap_app_block')`,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to check block table: %w", err)
	}
	if !exists {
		return 0, nil
	}

	var count int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM swap_app_block`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count blocks: %w", err)
	}
	return count, nil
}
