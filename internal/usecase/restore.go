package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/semmidev/arsip/internal/adapter/archive"
	"github.com/semmidev/arsip/internal/domain"
	"github.com/semmidev/arsip/internal/fsutil"
)

// VerifyBackup recomputes the checksum of every stored database file and
// compares it to the recorded one. Missing files count as mismatches; the
// result is always structured, never an error, unless the id is unknown.
func (m *Manager) VerifyBackup(id string) (domain.VerificationResult, error) {
	record, err := m.catalog.Get(id)
	if err != nil {
		return domain.VerificationResult{}, err
	}
	return m.verifyRecord(record), nil
}

func (m *Manager) verifyRecord(record domain.BackupRecord) domain.VerificationResult {
	result := domain.VerificationResult{
		Valid:     true,
		Databases: make(map[string]domain.DatabaseCheck, len(record.Databases)),
	}

	for name, file := range record.Databases {
		check := domain.DatabaseCheck{Expected: file.Checksum}

		path := m.storedPath(record.Tier, file.Filename)
		if fsutil.Exists(path) {
			if actual, err := fsutil.Checksum(path); err == nil {
				check.Actual = actual
			}
		}

		check.Valid = check.Actual != "" && check.Actual == check.Expected
		if !check.Valid {
			result.Valid = false
		}
		result.Databases[name] = check
	}

	return result
}

// RestoreBackup copies a verified backup's files over the live database
// paths. A corrupt backup is refused outright. Before overwriting anything a
// manual safety snapshot of the current live databases is attempted; its
// failure is logged but never blocks the restore.
func (m *Manager) RestoreBackup(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, err := m.catalog.Get(id)
	if err != nil {
		return "", err
	}

	verification := m.verifyRecord(record)
	if !verification.Valid {
		return "", fmt.Errorf("%w: %s", domain.ErrIntegrityCheckFailed, id)
	}

	if safety, err := m.createBackup(ctx, domain.TierManual, "system:pre-restore"); err != nil {
		m.logger.Warnf("Pre-restore safety snapshot failed, restoring anyway: %v", err)
	} else {
		m.logger.Infof("Pre-restore safety snapshot: %s", safety.ID)
	}

	// Copies proceed per database; a partial restore is reported, not hidden.
	var copyErrs []error
	for _, name := range sortedKeys(record.Databases) {
		source := m.storedPath(record.Tier, record.Databases[name].Filename)
		if err := fsutil.CopyFile(source, m.opts.Databases[name]); err != nil {
			copyErrs = append(copyErrs, fmt.Errorf("restore %s: %w", name, err))
		}
	}
	if len(copyErrs) > 0 {
		return "", errors.Join(copyErrs...)
	}

	m.logger.Infof("Restored %d database(s) from %s", len(record.Databases), id)
	return id, nil
}

// ExportBackup writes a verified backup as a single .tar.zst archive at
// destPath, for off-host copies taken by an operator.
func (m *Manager) ExportBackup(id, destPath string) error {
	record, err := m.catalog.Get(id)
	if err != nil {
		return err
	}

	if verification := m.verifyRecord(record); !verification.Valid {
		return fmt.Errorf("%w: %s", domain.ErrIntegrityCheckFailed, id)
	}

	if err := archive.Bundle(m.recordPaths(record), destPath); err != nil {
		return fmt.Errorf("export %s: %w", id, err)
	}

	m.logger.Infof("Exported %s to %s", id, destPath)
	return nil
}
