// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package main

import (
	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/deploy"
	"github.com/spf13/cobra"
)

func newDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Pull, install, migrate, collect static files, restart services and clear the cache",
		Long: `Deploy runs the production release sequence: git pull, pip install,
database migrations, collectstatic, systemctl restart of the application
services, then clear_cache. The sequence aborts on the first failing step
and performs no rollback; re-run after fixing the failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			seq := deploy.NewSequencer(cfg, command.NewExecRunner())
			return seq.Run(cmd.Context())
		},
	}
}
