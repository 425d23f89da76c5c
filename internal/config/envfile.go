// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEnvFileCreated is returned when the environment file was missing and a
// fresh copy of the template was written in its place. The operator must
// edit the new file before re-running; proceeding with template placeholder
// values would initialize the system with default credentials.
var ErrEnvFileCreated = errors.New("environment file created from template; edit it and re-run")

// EnsureEnvFile guards against running with a missing environment file.
//
// If envPath exists it returns nil and the caller may proceed. If it is
// missing, the template at templatePath is copied to envPath and
// ErrEnvFileCreated is returned; the caller must abort with a non-zero exit.
func EnsureEnvFile(envPath, templatePath string) error {
	if _, err := os.Stat(envPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat environment file %s: %w", envPath, err)
	}

	if err := copyFile(templatePath, envPath); err != nil {
		return fmt.Errorf("failed to create environment file from template: %w", err)
	}

	return ErrEnvFileCreated
}

// copyFile copies src to dst. dst must not already exist; the guard above is
// the only caller and a clobbered env file would silently discard operator
// edits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // read-only handle

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck // unlink path follows
		os.Remove(dst)
		return err
	}
	return out.Close()
}
