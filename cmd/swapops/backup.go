// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package main

import (
	"github.com/moneyswap/swapops/internal/backup"
	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/logging"
	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Dump the database, compress the dump and rotate old archives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			mgr, err := backup.NewManager(cfg, command.NewExecRunner(), nil)
			if err != nil {
				return err
			}
			b, err := mgr.CreateBackup(cmd.Context())
			if err != nil {
				return err
			}
			logging.Info().
				Str("file", b.FilePath).
				Int64("size_bytes", b.FileSize).
				Str("checksum", b.Checksum).
				Msg("Backup complete")
			return nil
		},
	}
}
