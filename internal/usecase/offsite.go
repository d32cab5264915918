package usecase

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/semmidev/arsip/internal/adapter/archive"
	"github.com/semmidev/arsip/internal/domain"
)

// UploadTarget pairs an offsite destination with a display name.
type UploadTarget struct {
	Name    string
	Storage domain.Uploader
}

// Shipper replicates finished backups offsite: the record's files are
// bundled into one .tar.zst archive and pushed to every target in parallel.
// Everything here is best-effort; offsite failures are logged and never fail
// the backup itself.
type Shipper struct {
	targets []UploadTarget
	logger  Logger
}

func NewShipper(targets []UploadTarget, logger Logger) *Shipper {
	return &Shipper{
		targets: targets,
		logger:  logger,
	}
}

func archiveName(id string) string {
	return id + ".tar.zst"
}

// Ship bundles and uploads one backup.
func (s *Shipper) Ship(ctx context.Context, record domain.BackupRecord, files []string) {
	if len(s.targets) == 0 {
		return
	}

	archivePath := filepath.Join(os.TempDir(), archiveName(record.ID))
	if err := archive.Bundle(files, archivePath); err != nil {
		s.logger.Errorf("[%s] Failed to build offsite archive: %v", record.ID, err)
		return
	}
	defer os.Remove(archivePath)

	remoteName := archiveName(record.ID)

	var wg sync.WaitGroup
	for _, target := range s.targets {
		wg.Add(1)
		go func(t UploadTarget) {
			defer wg.Done()

			s.logger.Infof("[%s] Uploading to %s...", record.ID, t.Name)
			if err := t.Storage.Upload(ctx, archivePath, remoteName); err != nil {
				s.logger.Errorf("[%s] Failed to upload to %s: %v", record.ID, t.Name, err)
			} else {
				s.logger.Infof("[%s] Successfully uploaded to %s", record.ID, t.Name)
			}
		}(target)
	}

	wg.Wait()
}

// Discard removes a deleted backup's archive from every target.
func (s *Shipper) Discard(ctx context.Context, id string) {
	if len(s.targets) == 0 {
		return
	}

	remoteName := archiveName(id)

	var wg sync.WaitGroup
	for _, target := range s.targets {
		wg.Add(1)
		go func(t UploadTarget) {
			defer wg.Done()

			if err := t.Storage.Delete(ctx, remoteName); err != nil {
				s.logger.Warnf("Failed to delete %s from %s: %v", remoteName, t.Name, err)
			}
		}(target)
	}

	wg.Wait()
}
