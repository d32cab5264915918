// Package usecase implements the backup lifecycle: creating tiered
// snapshots of the tracked databases, rotating daily backups up through
// weekly and monthly retention buckets, verifying stored checksums and
// restoring from any retained snapshot.
package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/semmidev/arsip/internal/domain"
	"github.com/semmidev/arsip/internal/fsutil"
)

type Logger interface {
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// Options carries everything a Manager needs; there is no package-level
// state, so tests can point isolated managers at temp directories.
type Options struct {
	// Root is the backup storage root; each tier gets a subdirectory.
	Root string

	// Databases maps each tracked database name to its live file path.
	Databases map[string]string

	RetainDaily   int
	RetainWeekly  int
	RetainMonthly int
}

const (
	defaultRetainDaily   = 7
	defaultRetainWeekly  = 4
	defaultRetainMonthly = 12
)

// Manager orchestrates backup creation, rotation, verification and restore
// over a Catalog and the filesystem. Mutating operations are serialized by a
// single mutex; the catalog is the one shared mutable resource.
type Manager struct {
	opts    Options
	catalog domain.Catalog
	logger  Logger
	shipper *Shipper

	mu  sync.Mutex
	now func() time.Time
}

func NewManager(opts Options, catalog domain.Catalog, logger Logger, shipper *Shipper) (*Manager, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("backup root is required")
	}
	if len(opts.Databases) == 0 {
		return nil, fmt.Errorf("at least one tracked database is required")
	}
	if opts.RetainDaily <= 0 {
		opts.RetainDaily = defaultRetainDaily
	}
	if opts.RetainWeekly <= 0 {
		opts.RetainWeekly = defaultRetainWeekly
	}
	if opts.RetainMonthly <= 0 {
		opts.RetainMonthly = defaultRetainMonthly
	}

	m := &Manager{
		opts:    opts,
		catalog: catalog,
		logger:  logger,
		shipper: shipper,
		now:     time.Now,
	}

	if err := m.ensureTierDirs(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) ensureTierDirs() error {
	for _, tier := range domain.AllTiers {
		if err := fsutil.EnsureDir(m.tierDir(tier)); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) tierDir(tier domain.Tier) string {
	return filepath.Join(m.opts.Root, tier.String())
}

func (m *Manager) storedPath(tier domain.Tier, filename string) string {
	return filepath.Join(m.tierDir(tier), filename)
}

// trackedNames returns the tracked database names in stable order.
func (m *Manager) trackedNames() []string {
	names := make([]string, 0, len(m.opts.Databases))
	for name := range m.opts.Databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBackup snapshots every tracked database into the given tier. A
// daily backup triggers rotation before returning; rotation failures are
// logged, they never fail the backup that caused them.
func (m *Manager) CreateBackup(ctx context.Context, tier domain.Tier, createdBy string) (domain.BackupRecord, error) {
	if !tier.Valid() {
		return domain.BackupRecord{}, fmt.Errorf("unknown tier %q", tier)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, err := m.createBackup(ctx, tier, createdBy)
	if err != nil {
		return domain.BackupRecord{}, err
	}

	if tier == domain.TierDaily {
		summary := m.rotateBackups()
		for _, msg := range summary.Errors {
			m.logger.Errorf("Rotation after %s: %s", record.ID, msg)
		}
	}

	return record, nil
}

// RotateBackups applies the retention policy: overflowing daily backups are
// promoted to weekly, overflowing weekly to monthly, and overflowing monthly
// deleted. Individual failures are collected, never raised.
func (m *Manager) RotateBackups(ctx context.Context) domain.RotationSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rotateBackups()
}

func (m *Manager) createBackup(ctx context.Context, tier domain.Tier, createdBy string) (domain.BackupRecord, error) {
	start := m.now()

	if err := m.ensureTierDirs(); err != nil {
		return domain.BackupRecord{}, err
	}

	// All sources must be present before a single byte is copied.
	for _, name := range m.trackedNames() {
		if !fsutil.Exists(m.opts.Databases[name]) {
			return domain.BackupRecord{}, fmt.Errorf("%w: %s (%s)",
				domain.ErrSourceMissing, name, m.opts.Databases[name])
		}
	}

	id := domain.BackupID(tier, start)
	m.logger.Infof("[%s] Creating %s backup...", id, tier)

	databases := make(map[string]domain.DatabaseFile, len(m.opts.Databases))
	var written []string

	cleanup := func() {
		for _, path := range written {
			m.removeFile(path)
		}
	}

	for _, name := range m.trackedNames() {
		filename := domain.BackupFilename(id, name)
		dest := m.storedPath(tier, filename)

		if err := fsutil.CopyFile(m.opts.Databases[name], dest); err != nil {
			cleanup()
			return domain.BackupRecord{}, fmt.Errorf("copy %s: %w", name, err)
		}
		written = append(written, dest)

		// Checksum and size come from the destination, so they describe
		// what is actually stored, not what we meant to store.
		checksum, err := fsutil.Checksum(dest)
		if err != nil {
			cleanup()
			return domain.BackupRecord{}, fmt.Errorf("checksum %s: %w", name, err)
		}
		size, err := fsutil.Size(dest)
		if err != nil {
			cleanup()
			return domain.BackupRecord{}, fmt.Errorf("stat %s: %w", name, err)
		}

		databases[name] = domain.DatabaseFile{
			Filename:  filename,
			SizeBytes: size,
			Checksum:  checksum,
		}
	}

	record := domain.BackupRecord{
		ID:        id,
		Tier:      tier,
		CreatedAt: start,
		Databases: databases,
		CreatedBy: createdBy,
	}

	// Metadata last: a crash before this line leaves orphan files for
	// Cleanup to sweep, never a record pointing at missing files.
	if err := m.catalog.AddOrReplace(record); err != nil {
		cleanup()
		return domain.BackupRecord{}, fmt.Errorf("persist record %s: %w", id, err)
	}

	m.logger.Infof("[%s] Backup complete, %d database(s), %d bytes, took %s",
		id, len(databases), record.TotalSize(), time.Since(start).Round(time.Millisecond))

	if m.shipper != nil {
		m.shipper.Ship(ctx, record, m.recordPaths(record))
	}

	return record, nil
}

func (m *Manager) rotateBackups() domain.RotationSummary {
	summary := domain.RotationSummary{
		Promoted: []domain.Promotion{},
		Deleted:  []string{},
		Errors:   []string{},
	}

	// Tier by tier, oldest first; a weekly overflow caused by fresh
	// promotions is handled in this same invocation.
	m.promoteOverflow(domain.TierDaily, domain.TierWeekly, m.opts.RetainDaily, &summary)
	m.promoteOverflow(domain.TierWeekly, domain.TierMonthly, m.opts.RetainWeekly, &summary)
	m.deleteOverflow(domain.TierMonthly, m.opts.RetainMonthly, &summary)

	if len(summary.Promoted) > 0 || len(summary.Deleted) > 0 || len(summary.Errors) > 0 {
		m.logger.Infof("Rotation: %d promoted, %d deleted, %d error(s)",
			len(summary.Promoted), len(summary.Deleted), len(summary.Errors))
	}

	return summary
}

// promoteOverflow moves the oldest records of a tier up until the tier fits
// its retention count. A failed promotion is recorded and skipped so one bad
// record cannot block the rest.
func (m *Manager) promoteOverflow(from, to domain.Tier, retain int, summary *domain.RotationSummary) {
	failed := make(map[string]bool)

	for {
		records, err := m.catalog.ListByTier(from)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("list %s: %v", from, err))
			return
		}
		if len(records) <= retain {
			return
		}

		oldest, ok := oldestExcluding(records, failed)
		if !ok {
			return
		}

		newID, err := m.promote(oldest, to)
		if err != nil {
			failed[oldest.ID] = true
			summary.Errors = append(summary.Errors, fmt.Sprintf("promote %s to %s: %v", oldest.ID, to, err))
			continue
		}

		summary.Promoted = append(summary.Promoted, domain.Promotion{
			ID:    oldest.ID,
			From:  from,
			To:    to,
			NewID: newID,
		})
		m.logger.Infof("Promoted %s -> %s", oldest.ID, newID)
	}
}

// deleteOverflow removes the oldest records of the terminal tier until it
// fits its retention count.
func (m *Manager) deleteOverflow(tier domain.Tier, retain int, summary *domain.RotationSummary) {
	failed := make(map[string]bool)

	for {
		records, err := m.catalog.ListByTier(tier)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("list %s: %v", tier, err))
			return
		}
		if len(records) <= retain {
			return
		}

		oldest, ok := oldestExcluding(records, failed)
		if !ok {
			return
		}

		if err := m.deleteRecord(oldest); err != nil {
			failed[oldest.ID] = true
			summary.Errors = append(summary.Errors, fmt.Sprintf("delete %s: %v", oldest.ID, err))
			continue
		}

		summary.Deleted = append(summary.Deleted, oldest.ID)
		m.logger.Infof("Deleted expired %s backup %s", tier, oldest.ID)
	}
}

// promote copies a record's files into the target tier under a new id
// derived from the record's original creation time, then retires the old
// record. Ordering is deliberate: new files are written and verified before
// anything old is deleted, and the new metadata record exists before the old
// one is removed. A crash mid-promotion therefore leaves a transient
// duplicate at worst, never a gap.
func (m *Manager) promote(record domain.BackupRecord, target domain.Tier) (string, error) {
	newID := domain.BackupID(target, record.CreatedAt)

	newDatabases := make(map[string]domain.DatabaseFile, len(record.Databases))
	var written []string

	cleanup := func() {
		for _, path := range written {
			m.removeFile(path)
		}
	}

	for name, file := range record.Databases {
		oldPath := m.storedPath(record.Tier, file.Filename)
		newFilename := domain.BackupFilename(newID, name)
		newPath := m.storedPath(target, newFilename)

		if err := fsutil.CopyFile(oldPath, newPath); err != nil {
			cleanup()
			return "", fmt.Errorf("copy %s: %w", name, err)
		}
		written = append(written, newPath)

		checksum, err := fsutil.Checksum(newPath)
		if err != nil {
			cleanup()
			return "", fmt.Errorf("checksum %s: %w", name, err)
		}
		if checksum != file.Checksum {
			cleanup()
			return "", fmt.Errorf("%w: %s changed checksum during promotion", domain.ErrIntegrityCheckFailed, name)
		}

		newDatabases[name] = domain.DatabaseFile{
			Filename:  newFilename,
			SizeBytes: file.SizeBytes,
			Checksum:  file.Checksum,
		}
	}

	newRecord := domain.BackupRecord{
		ID:           newID,
		Tier:         target,
		CreatedAt:    record.CreatedAt,
		Databases:    newDatabases,
		PromotedFrom: record.ID,
		CreatedBy:    record.CreatedBy,
	}

	if err := m.catalog.AddOrReplace(newRecord); err != nil {
		cleanup()
		return "", fmt.Errorf("persist record %s: %w", newID, err)
	}

	// Old side last. Leftovers here are duplicates, swept by Cleanup.
	for _, file := range record.Databases {
		m.removeFile(m.storedPath(record.Tier, file.Filename))
	}
	if err := m.catalog.Remove(record.ID); err != nil {
		m.logger.Warnf("Failed to remove promoted record %s: %v", record.ID, err)
	}

	return newID, nil
}

// recordPaths resolves every stored file of a record to its absolute path.
func (m *Manager) recordPaths(record domain.BackupRecord) []string {
	paths := make([]string, 0, len(record.Databases))
	for _, name := range sortedKeys(record.Databases) {
		paths = append(paths, m.storedPath(record.Tier, record.Databases[name].Filename))
	}
	return paths
}

func oldestExcluding(records []domain.BackupRecord, excluded map[string]bool) (domain.BackupRecord, bool) {
	var oldest domain.BackupRecord
	found := false
	for _, record := range records {
		if excluded[record.ID] {
			continue
		}
		if !found || record.CreatedAt.Before(oldest.CreatedAt) {
			oldest = record
			found = true
		}
	}
	return oldest, found
}

func sortedKeys(databases map[string]domain.DatabaseFile) []string {
	keys := make([]string, 0, len(databases))
	for key := range databases {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
