// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package main

import (
	"github.com/moneyswap/swapops/internal/bootstrap"
	"github.com/moneyswap/swapops/internal/command"
	"github.com/spf13/cobra"
)

func newBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Verify the Python runtime, create the virtualenv and install dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			b := bootstrap.New(cfg, command.NewExecRunner())
			return b.Run(cmd.Context())
		},
	}
}
