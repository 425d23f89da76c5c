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

	"github.com/moneyswap/swapops/internal/logging"
)

// rotate applies the count-based retention policy: the RetainCount+1 most
// recent archives (the one just taken plus RetainCount previous ones) are
// kept, everything older is deleted. Recency is decided by the
// name-embedded timestamp, not file mtime, so restored or copied archives
// rotate predictably.
//
// Returns the number of archives kept and deleted.
func (m *Manager) rotate() (kept, deleted int, err error) {
	names, err := m.listArchives()
	if err != nil {
		return 0, 0, err
	}

	expired := selectExpired(names, m.cfg.Backup.RetainCount+1)
	kept = len(names) - len(expired)

	for _, name := range expired {
		path := filepath.Join(m.cfg.Backup.Dir, name)
		if err := os.Remove(path); err != nil {
			logging.Warn().Err(err).Str("file", name).Msg("Failed to delete expired backup")
			kept++
			continue
		}
		deleted++
		m.markDeleted(name)
		logging.Info().Str("file", name).Msg("Deleted expired backup")
	}

	return kept, deleted, nil
}

// listArchives returns the backup archive names present in the backup
// directory. Files that don't follow the archive naming scheme are ignored;
// rotation never touches them.
func (m *Manager) listArchives() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.cfg.Backup.Dir, filePrefix+"*"+fileSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to list backup directory: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		name := filepath.Base(match)
		if _, err := ParseFileTime(name); err != nil {
			logging.Debug().Str("file", name).Msg("Ignoring file with non-archive name")
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// selectExpired returns the archive names beyond the keep newest ones.
// Names must all parse with ParseFileTime. The zero-padded timestamp layout
// makes lexicographic order equal chronological order, but sorting by the
// parsed time keeps the policy independent of the layout.
func selectExpired(names []string, keep int) []string {
	if keep < 0 {
		keep = 0
	}
	if len(names) <= keep {
		return nil
	}

	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Slice(sorted, func(i, j int) bool {
		ti, _ := ParseFileTime(sorted[i])
		tj, _ := ParseFileTime(sorted[j])
		return ti.After(tj)
	})

	return sorted[keep:]
}

// markDeleted updates the metadata record for a rotated-out archive.
func (m *Manager) markDeleted(fileName string) {
	m.metadataMu.Lock()
	defer m.metadataMu.Unlock()

	for _, b := range m.metadata.Backups {
		if b.FileName == fileName {
			b.Status = StatusDeleted
		}
	}
	m.saveMetadataLocked() //nolint:errcheck // best effort - archive already removed
}
