// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package backup

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/logging"
)

// CreateBackup dumps the database into a fresh timestamped archive, records
// its metadata, and rotates older archives.
//
// Failure guarantee: if the dump command fails, no new archive (partial or
// complete) remains on disk and no existing archive is deleted.
func (m *Manager) CreateBackup(ctx context.Context) (*Backup, error) {
	if err := m.EnsureDir(); err != nil {
		return nil, err
	}

	unlock, err := m.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := m.pinger.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database preflight failed: %w", err)
	}

	started := m.now()
	name := FileName(started)
	path := filepath.Join(m.cfg.Backup.Dir, name)

	logging.Info().
		Str("database", m.cfg.Database.Name).
		Str("file", name).
		Msg("Dumping database")

	if err := m.dumpCompressed(ctx, path); err != nil {
		return nil, err
	}

	record := &Backup{
		ID:        uuid.NewString(),
		FileName:  name,
		FilePath:  path,
		Database:  m.cfg.Database.Name,
		Status:    StatusCompleted,
		Trigger:   TriggerManual,
		CreatedAt: started,
		Duration:  m.now().Sub(started),
	}

	if info, err := os.Stat(path); err == nil {
		record.FileSize = info.Size()
	}
	if sum, err := fileChecksum(path); err == nil {
		record.Checksum = sum
	}

	m.saveBackup(record)

	kept, deleted, err := m.rotate()
	if err != nil {
		return record, fmt.Errorf("backup succeeded but rotation failed: %w", err)
	}

	logging.Info().
		Str("file", name).
		Int64("bytes", record.FileSize).
		Dur("elapsed", record.Duration).
		Int("kept", kept).
		Int("deleted", deleted).
		Msg("Backup completed")

	return record, nil
}

// dumpCompressed streams pg_dump output through gzip into path. The archive
// is created with O_EXCL: a second invocation within the same second fails
// cleanly instead of clobbering the earlier archive. On any failure the
// partial file is removed.
func (m *Manager) dumpCompressed(ctx context.Context, path string) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("archive %s already exists (same-second invocation?): %w", path, err)
		}
		return fmt.Errorf("failed to create archive %s: %w", path, err)
	}

	defer func() {
		if err != nil {
			f.Close() //nolint:errcheck // discarding a failed archive
			os.Remove(path)
		}
	}()

	gz, err := gzip.NewWriterLevel(f, m.cfg.Backup.CompressionLevel)
	if err != nil {
		return fmt.Errorf("invalid compression level %d: %w", m.cfg.Backup.CompressionLevel, err)
	}

	dump := command.Spec{
		Name: "pg_dump",
		Path: m.cfg.Backup.PgDumpBin,
		Args: []string{
			"-h", m.cfg.Database.Host,
			"-p", strconv.Itoa(m.cfg.Database.Port),
			"-U", m.cfg.Database.User,
			m.cfg.Database.Name,
		},
		Env:    []string{"PGPASSWORD=" + m.cfg.Database.Password},
		Stdout: gz,
	}

	if runErr := m.runner.Run(ctx, dump); runErr != nil {
		gz.Close() //nolint:errcheck // discarding a failed archive
		return fmt.Errorf("database dump failed: %w", runErr)
	}

	if err = gz.Close(); err != nil {
		return fmt.Errorf("failed to finalize compressed archive: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	return nil
}

// acquireLock takes the backup-directory lock. Concurrent runs would race on
// the list-and-delete rotation step, so a held lock aborts the run.
func (m *Manager) acquireLock() (func(), error) {
	lockPath := filepath.Join(m.cfg.Backup.Dir, ".backup.lock")

	f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another backup appears to be running (lock file %s exists)", lockPath)
		}
		return nil, fmt.Errorf("failed to acquire backup lock: %w", err)
	}

	fmt.Fprintf(f, "%d %s\n", os.Getpid(), time.Now().Format(time.RFC3339)) //nolint:errcheck // advisory content
	f.Close()                                                               //nolint:errcheck // lock is the file's existence

	return func() {
		if err := os.Remove(lockPath); err != nil {
			logging.Warn().Err(err).Str("path", lockPath).Msg("Failed to release backup lock")
		}
	}, nil
}
