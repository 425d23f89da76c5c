// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package main

import (
	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/launcher"
	"github.com/spf13/cobra"
)

func newLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch",
		Short: "Run broker, celery worker, celery beat and gunicorn under supervision",
		Long: `Launch starts the full process stack in the foreground: redis-server,
the celery worker, the celery beat scheduler and gunicorn. Processes are
started in that order without waiting for readiness; a process that exits
is restarted with exponential backoff. Terminate with SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			l := launcher.New(cfg, command.NewExecRunner())
			return l.Run(cmd.Context())
		},
	}
}
