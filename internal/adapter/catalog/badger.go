package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/semmidev/arsip/internal/domain"
)

const backupKeyPrefix = "backup:"

// BadgerCatalog stores records in an embedded BadgerDB under the backup
// root. Same contract as FileCatalog; meant for deployments where a single
// rewritten JSON file becomes a bottleneck.
type BadgerCatalog struct {
	db *badger.DB
}

// NewBadger opens (or creates) a BadgerDB catalog at dir.
func NewBadger(dir string) (*BadgerCatalog, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger catalog at %s: %w", dir, err)
	}
	return &BadgerCatalog{db: db}, nil
}

func (c *BadgerCatalog) AddOrReplace(record domain.BackupRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", record.ID, err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(backupKeyPrefix+record.ID), data)
	})
}

func (c *BadgerCatalog) Remove(id string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		// Badger deletes are already no-ops for absent keys.
		return txn.Delete([]byte(backupKeyPrefix + id))
	})
}

func (c *BadgerCatalog) Get(id string) (domain.BackupRecord, error) {
	var record domain.BackupRecord

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(backupKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get record %s: %w", id, err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return domain.BackupRecord{}, err
	}

	return record, nil
}

func (c *BadgerCatalog) ListAll() ([]domain.BackupRecord, error) {
	records := make([]domain.BackupRecord, 0)

	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(backupKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record domain.BackupRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return fmt.Errorf("failed to decode record %s: %w",
						strings.TrimPrefix(string(it.Item().Key()), backupKeyPrefix), err)
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (c *BadgerCatalog) ListByTier(tier domain.Tier) ([]domain.BackupRecord, error) {
	all, err := c.ListAll()
	if err != nil {
		return nil, err
	}

	var records []domain.BackupRecord
	for _, record := range all {
		if record.Tier == tier {
			records = append(records, record)
		}
	}
	return records, nil
}

func (c *BadgerCatalog) Close() error {
	return c.db.Close()
}
