// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package main

import (
	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/health"
	"github.com/moneyswap/swapops/internal/logging"
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the database, broker and systemd units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			checker := health.NewChecker(cfg, command.NewExecRunner())
			checks, err := checker.Run(cmd.Context())
			for _, c := range checks {
				ev := logging.Info()
				if !c.OK {
					ev = logging.Error()
				}
				ev.Str("check", c.Name).Bool("ok", c.OK).Str("detail", c.Detail).Msg("Health check")
			}
			return err
		},
	}
}
