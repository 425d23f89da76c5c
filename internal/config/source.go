// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// SourceEnvFile loads the environment file at path into the process
// environment, making its whole key set visible to swapops configuration and
// to every child process swapops starts.
//
// Variables already present in the process environment win over the file, so
// an operator can still override individual keys per invocation.
func SourceEnvFile(path string) error {
	pairs, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read environment file %s: %w", path, err)
	}

	for key, value := range pairs {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s from environment file: %w", key, err)
		}
	}
	return nil
}
