// Package catalog provides the durable backup index backends: a single
// atomically-rewritten JSON file for simple deployments, and an embedded
// BadgerDB store for heavier ones.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/semmidev/arsip/internal/domain"
)

// Logger is the slice of logging the catalog backends need.
type Logger interface {
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// FileCatalog keeps the whole index in memory and rewrites one JSON file on
// every mutation. Writes go to a temp file first and are renamed into place,
// so readers never observe a partial catalog.
type FileCatalog struct {
	path    string
	logger  Logger
	mu      sync.RWMutex
	records map[string]domain.BackupRecord
}

type catalogFile struct {
	Backups []domain.BackupRecord `json:"backups"`
}

// NewFile loads (or initializes) the catalog at path. A corrupt or
// unparseable file is logged and treated as empty: the catalog is rebuildable
// information, the backup files themselves are the data of record.
func NewFile(path string, logger Logger) (*FileCatalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	c := &FileCatalog{
		path:    path,
		logger:  logger,
		records: make(map[string]domain.BackupRecord),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var parsed catalogFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		c.logger.Warnf("Catalog %s is corrupt, starting from an empty index: %v", path, err)
		return c, nil
	}

	for _, record := range parsed.Backups {
		c.records[record.ID] = record
	}

	return c, nil
}

func (c *FileCatalog) AddOrReplace(record domain.BackupRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous, existed := c.records[record.ID]
	c.records[record.ID] = record

	if err := c.persist(); err != nil {
		if existed {
			c.records[record.ID] = previous
		} else {
			delete(c.records, record.ID)
		}
		return err
	}

	return nil
}

func (c *FileCatalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous, existed := c.records[id]
	if !existed {
		return nil
	}
	delete(c.records, id)

	if err := c.persist(); err != nil {
		c.records[id] = previous
		return err
	}

	return nil
}

func (c *FileCatalog) Get(id string) (domain.BackupRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.records[id]
	if !ok {
		return domain.BackupRecord{}, domain.ErrNotFound
	}
	return record, nil
}

func (c *FileCatalog) ListAll() ([]domain.BackupRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records := make([]domain.BackupRecord, 0, len(c.records))
	for _, record := range c.records {
		records = append(records, record)
	}
	return records, nil
}

func (c *FileCatalog) ListByTier(tier domain.Tier) ([]domain.BackupRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var records []domain.BackupRecord
	for _, record := range c.records {
		if record.Tier == tier {
			records = append(records, record)
		}
	}
	return records, nil
}

func (c *FileCatalog) Close() error {
	return nil
}

// persist rewrites the catalog file atomically. Caller holds the write lock.
func (c *FileCatalog) persist() error {
	out := catalogFile{Backups: make([]domain.BackupRecord, 0, len(c.records))}
	for _, record := range c.records {
		out.Backups = append(out.Backups, record)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".metadata-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp catalog file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to sync temp catalog file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp catalog file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace catalog %s: %w", c.path, err)
	}

	return nil
}
