package domain

import "context"

// Uploader ships a local backup archive to an offsite destination.
// Offsite replication is best-effort: a failed upload is logged, never fatal
// to the backup that produced the archive.
type Uploader interface {
	Upload(ctx context.Context, localPath string, remoteName string) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, remoteName string) error
}
