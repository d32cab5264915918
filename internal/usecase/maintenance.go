package usecase

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/semmidev/arsip/internal/domain"
	"github.com/semmidev/arsip/internal/fsutil"
)

// ListBackups returns every known backup, newest first, with aggregate sizes.
func (m *Manager) ListBackups() ([]domain.BackupListItem, error) {
	records, err := m.catalog.ListAll()
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	items := make([]domain.BackupListItem, 0, len(records))
	for _, record := range records {
		items = append(items, domain.BackupListItem{
			BackupRecord:   record,
			TotalSizeBytes: record.TotalSize(),
		})
	}
	return items, nil
}

// GetBackup returns one record, or domain.ErrNotFound.
func (m *Manager) GetBackup(id string) (domain.BackupRecord, error) {
	return m.catalog.Get(id)
}

// DeleteBackup removes a backup's files and then its record. Deleting an
// unknown id returns domain.ErrNotFound, which callers treat as a normal
// outcome; a second delete of the same id is therefore harmless.
func (m *Manager) DeleteBackup(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, err := m.catalog.Get(id)
	if err != nil {
		return err
	}

	if err := m.deleteRecord(record); err != nil {
		return err
	}

	if m.shipper != nil {
		m.shipper.Discard(ctx, id)
	}

	m.logger.Infof("Deleted backup %s", id)
	return nil
}

// deleteRecord removes files first, metadata second, so a crash in between
// leaves an orphan record that Cleanup reconciles.
func (m *Manager) deleteRecord(record domain.BackupRecord) error {
	for _, file := range record.Databases {
		path := m.storedPath(record.Tier, file.Filename)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return m.catalog.Remove(record.ID)
}

// StorageUsage aggregates catalog-visible size and count per tier.
func (m *Manager) StorageUsage() (domain.StorageUsage, error) {
	records, err := m.catalog.ListAll()
	if err != nil {
		return domain.StorageUsage{}, err
	}

	usage := domain.StorageUsage{
		ByTier:      make(map[domain.Tier]int64, len(domain.AllTiers)),
		CountByTier: make(map[domain.Tier]int, len(domain.AllTiers)),
	}
	for _, tier := range domain.AllTiers {
		usage.ByTier[tier] = 0
		usage.CountByTier[tier] = 0
	}

	for _, record := range records {
		size := record.TotalSize()
		usage.TotalBytes += size
		usage.ByTier[record.Tier] += size
		usage.CountByTier[record.Tier]++
	}

	return usage, nil
}

// Cleanup reconciles the catalog with disk state: any record with a missing
// backing file is dropped (and its surviving files removed), returning the
// ids swept. Safe to run repeatedly.
func (m *Manager) Cleanup() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, err := m.catalog.ListAll()
	if err != nil {
		return nil, err
	}

	removed := []string{}
	for _, record := range records {
		orphaned := false
		for _, file := range record.Databases {
			if !fsutil.Exists(m.storedPath(record.Tier, file.Filename)) {
				orphaned = true
				break
			}
		}
		if !orphaned {
			continue
		}

		for _, file := range record.Databases {
			m.removeFile(m.storedPath(record.Tier, file.Filename))
		}
		if err := m.catalog.Remove(record.ID); err != nil {
			m.logger.Warnf("Failed to remove orphan record %s: %v", record.ID, err)
			continue
		}

		m.logger.Infof("Swept orphan record %s", record.ID)
		removed = append(removed, record.ID)
	}

	sort.Strings(removed)
	return removed, nil
}

func (m *Manager) removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		m.logger.Warnf("Failed to remove %s: %v", path, err)
	}
}
