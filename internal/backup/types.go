// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

// Package backup dumps the application's PostgreSQL database and rotates the
// resulting archives.
//
// A backup run performs, in order:
//  1. Acquire the backup-directory lock (concurrent runs abort, they would
//     race on the rotation step).
//  2. Preflight the database connection.
//  3. Stream pg_dump output through gzip into db_backup_<timestamp>.sql.gz.
//     A failed dump leaves no file behind, partial archives never survive.
//  4. Record metadata (size, checksum) in metadata.json.
//  5. Rotate: keep the N+1 most recent archives by name-embedded timestamp
//     (the fresh one plus N retained), delete the rest.
package backup

import "time"

// Status represents the recorded state of a backup.
type Status string

const (
	// StatusCompleted indicates the backup finished successfully.
	StatusCompleted Status = "completed"

	// StatusDeleted indicates the archive was removed by rotation.
	StatusDeleted Status = "deleted"
)

// Trigger indicates what initiated the backup.
type Trigger string

// TriggerManual indicates the backup was run by an operator. Records only
// become visible in metadata.json after a successful dump, so there is no
// in-progress state to record.
const TriggerManual Trigger = "manual"

// Backup is the metadata record for a single database archive.
type Backup struct {
	// ID uniquely identifies the backup record.
	ID string `json:"id"`

	// FileName is the archive name (db_backup_<timestamp>.sql.gz).
	FileName string `json:"file_name"`

	// FilePath is the absolute archive path.
	FilePath string `json:"file_path"`

	// Database is the dumped database name.
	Database string `json:"database"`

	// Status is the backup's recorded state.
	Status Status `json:"status"`

	// Trigger records what initiated the backup.
	Trigger Trigger `json:"trigger"`

	// CreatedAt is the dump start time; it matches the name-embedded
	// timestamp to the second.
	CreatedAt time.Time `json:"created_at"`

	// Duration is how long the dump and compression took.
	Duration time.Duration `json:"duration_ms"`

	// FileSize is the compressed archive size in bytes.
	FileSize int64 `json:"file_size"`

	// Checksum is the SHA-256 of the compressed archive.
	Checksum string `json:"checksum"`

	// Error holds the failure message for unsuccessful runs.
	Error string `json:"error,omitempty"`
}

// MetadataStore holds all backup metadata, persisted as metadata.json in the
// backup directory.
type MetadataStore struct {
	Backups []*Backup  `json:"backups"`
	LastRun *time.Time `json:"last_run,omitempty"`
}
