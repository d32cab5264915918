package domain

// Catalog is the durable index of all known backups, keyed by record id.
// It is pure storage: path resolution and orphan reconciliation belong to
// the manager, which knows how filenames map onto tier directories.
type Catalog interface {
	// AddOrReplace upserts a record by id. The write must be atomic from a
	// concurrent reader's point of view.
	AddOrReplace(record BackupRecord) error

	// Remove deletes a record by id. Removing an absent id is a no-op.
	Remove(id string) error

	// Get returns the record for id, or ErrNotFound.
	Get(id string) (BackupRecord, error)

	// ListAll returns every record, in no guaranteed order.
	ListAll() ([]BackupRecord, error)

	// ListByTier returns every record in the given tier, in no guaranteed order.
	ListByTier(tier Tier) ([]BackupRecord, error)

	Close() error
}
