// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

// Package main is the entry point for swapops, the operational CLI for the
// MoneySwap platform.
//
// swapops replaces the platform's ad-hoc shell scripts with one binary:
//
//	swapops bootstrap   create the runtime environment and install deps
//	swapops setup       first-run initialization (migrations, ledger, seed)
//	swapops launch      run broker, worker, scheduler and web server supervised
//	swapops backup      dump the database, compress, rotate old archives
//	swapops deploy      pull, install, migrate, collect, restart, clear cache
//	swapops health      probe database, broker and systemd units
//
// Subcommands take no flags; behavior is fixed by configuration (see
// internal/config for the environment variable surface). Every command exits
// 0 on full success and 1 on the first failing step.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/moneyswap/swapops/internal/config"
	"github.com/moneyswap/swapops/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "swapops",
		Short:         "Operational tooling for the MoneySwap platform",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newBootstrapCmd(),
		newSetupCmd(),
		newLaunchCmd(),
		newBackupCmd(),
		newDeployCmd(),
		newHealthCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// loadConfig loads configuration, sourcing the project env file first when
// it exists so its key set reaches both swapops and every child process.
// The setup command performs its own env-file guard before calling this.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(cfg.Project.EnvFile); statErr == nil {
		if err := config.SourceEnvFile(cfg.Project.EnvFile); err != nil {
			return nil, err
		}
		// Reload so env-file keys (DB_*, REDIS_URL, ...) take effect.
		if cfg, err = config.Load(); err != nil {
			return nil, err
		}
	}

	initLogging(cfg)
	return cfg, nil
}

// initLogging configures the global logger from the loaded configuration.
func initLogging(cfg *config.Config) {
	lc := logging.DefaultConfig()
	lc.Level = cfg.Logging.Level
	lc.Format = cfg.Logging.Format
	lc.Caller = cfg.Logging.Caller
	logging.Init(lc)
}
