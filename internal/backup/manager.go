// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/moneyswap/swapops/internal/command"
	"github.com/moneyswap/swapops/internal/config"
	"github.com/moneyswap/swapops/internal/logging"
)

// metadataFileName is the metadata store file inside the backup directory.
const metadataFileName = "metadata.json"

// Backup archive naming. The timestamp has second granularity; files are
// created with O_EXCL so a same-second collision fails instead of
// overwriting an existing archive.
const (
	filePrefix = "db_backup_"
	fileSuffix = ".sql.gz"
	timeLayout = "20060102_150405"
)

// FileName returns the archive name for a backup taken at t.
func FileName(t time.Time) string {
	return filePrefix + t.Format(timeLayout) + fileSuffix
}

// ParseFileTime extracts the embedded timestamp from an archive name.
func ParseFileTime(name string) (time.Time, error) {
	base := filepath.Base(name)
	if len(base) <= len(filePrefix)+len(fileSuffix) ||
		base[:len(filePrefix)] != filePrefix ||
		base[len(base)-len(fileSuffix):] != fileSuffix {
		return time.Time{}, fmt.Errorf("not a backup archive name: %s", base)
	}
	raw := base[len(filePrefix) : len(base)-len(fileSuffix)]
	t, err := time.ParseInLocation(timeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp in archive name %s: %w", base, err)
	}
	return t, nil
}

// Manager performs dump, compression and rotation of database backups.
type Manager struct {
	cfg    *config.Config
	runner command.Runner
	pinger Pinger

	metadataFile string
	metadata     *MetadataStore
	metadataMu   sync.Mutex

	// now is the clock; replaced in tests.
	now func() time.Time
}

// NewManager creates a backup manager. A nil pinger defaults to a lib/pq
// connectivity check against the configured database.
func NewManager(cfg *config.Config, runner command.Runner, pinger Pinger) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("backup configuration is required")
	}
	if pinger == nil {
		pinger = &postgresPinger{dsn: cfg.Database.DSN()}
	}

	m := &Manager{
		cfg:          cfg,
		runner:       runner,
		pinger:       pinger,
		metadataFile: filepath.Join(cfg.Backup.Dir, metadataFileName),
		now:          time.Now,
	}

	if err := m.loadMetadata(); err != nil {
		// A missing file is the normal first-run case; anything else means
		// the store is unreadable and will be rebuilt on the next save.
		if !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("file", m.metadataFile).
				Msg("Backup metadata unreadable, starting with an empty store")
		}
		m.metadata = &MetadataStore{Backups: make([]*Backup, 0)}
	}

	return m, nil
}

// EnsureDir creates the backup directory if it doesn't exist.
func (m *Manager) EnsureDir() error {
	if err := os.MkdirAll(m.cfg.Backup.Dir, 0o750); err != nil {
		return fmt.Errorf("failed to create backup directory %s: %w", m.cfg.Backup.Dir, err)
	}
	return nil
}

// ListBackups returns the recorded backups, newest first.
func (m *Manager) ListBackups() []*Backup {
	m.metadataMu.Lock()
	defer m.metadataMu.Unlock()

	out := make([]*Backup, len(m.metadata.Backups))
	copy(out, m.metadata.Backups)
	sortNewestFirst(out)
	return out
}

// saveBackup inserts or updates a backup record and persists the store.
func (m *Manager) saveBackup(backup *Backup) {
	m.metadataMu.Lock()
	defer m.metadataMu.Unlock()

	found := false
	for i, b := range m.metadata.Backups {
		if b.ID == backup.ID {
			m.metadata.Backups[i] = backup
			found = true
			break
		}
	}
	if !found {
		m.metadata.Backups = append(m.metadata.Backups, backup)
	}

	now := m.now()
	m.metadata.LastRun = &now
	m.saveMetadataLocked() //nolint:errcheck // best effort - archive already on disk
}

// loadMetadata loads backup metadata from disk.
func (m *Manager) loadMetadata() error {
	m.metadataMu.Lock()
	defer m.metadataMu.Unlock()

	data, err := os.ReadFile(m.metadataFile)
	if err != nil {
		return err
	}

	var metadata MetadataStore
	if err := json.Unmarshal(data, &metadata); err != nil {
		return err
	}

	m.metadata = &metadata
	return nil
}

// saveMetadataLocked persists the metadata store (metadataMu must be held).
func (m *Manager) saveMetadataLocked() error {
	data, err := json.MarshalIndent(m.metadata, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.metadataFile, data, 0o600)
}

// sortNewestFirst orders backups by creation time, newest first.
func sortNewestFirst(backups []*Backup) {
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
}
