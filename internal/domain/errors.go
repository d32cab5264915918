package domain

import "errors"

var (
	// ErrSourceMissing means a tracked live database file did not exist at
	// backup time. Nothing is written when this is returned.
	ErrSourceMissing = errors.New("source database file missing")

	// ErrNotFound means the referenced backup id is not in the catalog.
	// Callers treat this as a normal outcome, not a fault.
	ErrNotFound = errors.New("backup not found")

	// ErrIntegrityCheckFailed means at least one stored database file failed
	// its checksum check. A backup in this state is never restored.
	ErrIntegrityCheckFailed = errors.New("backup integrity check failed")
)
