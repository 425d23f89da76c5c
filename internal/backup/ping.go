// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package backup

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // postgres driver for the preflight check
)

// Pinger verifies the database is reachable before a dump is attempted.
// Failing fast here keeps a credentials or network problem from surfacing as
// a cryptic pg_dump exit status mid-run.
type Pinger interface {
	Ping(ctx context.Context) error
}

// postgresPinger checks connectivity with a lib/pq connection.
type postgresPinger struct {
	dsn string
}

// Ping implements Pinger.
func (p *postgresPinger) Ping(ctx context.Context) error {
	db, err := sql.Open("postgres", p.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck // short-lived preflight connection

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}
