// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package main

import (
	"errors"

	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/config"
	"github.com/moneyswap/swapops/internal/logging"
	"github.com/moneyswap/swapops/internal/setup"
	"github.com/spf13/cobra"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "First-run initialization: migrations, ledger genesis, agent seed, static files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Resolve paths before the env file exists; the guard below may
			// have to create it from the template.
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			initLogging(cfg)

			if err := config.EnsureEnvFile(cfg.Project.EnvFile, cfg.Project.EnvTemplate); err != nil {
				if errors.Is(err, config.ErrEnvFileCreated) {
					logging.Warn().
						Str("env_file", cfg.Project.EnvFile).
						Msg("Environment file created from template; fill in credentials and re-run setup")
				}
				return err
			}

			// Env file present: source it and reload so database credentials
			// and service URLs reach the initializer and its child processes.
			if err := config.SourceEnvFile(cfg.Project.EnvFile); err != nil {
				return err
			}
			if cfg, err = config.Load(); err != nil {
				return err
			}
			// The env file may carry LOG_LEVEL/LOG_FORMAT.
			initLogging(cfg)

			initializer := setup.NewInitializer(cfg, command.NewExecRunner(), nil)
			return initializer.Run(cmd.Context())
		},
	}
}
