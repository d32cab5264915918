package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/semmidev/arsip/internal/adapter/catalog"
	"github.com/semmidev/arsip/internal/adapter/storage"
	"github.com/semmidev/arsip/internal/config"
	"github.com/semmidev/arsip/internal/domain"
	"github.com/semmidev/arsip/internal/infrastructure/logger"
	"github.com/semmidev/arsip/internal/infrastructure/scheduler"
	"github.com/semmidev/arsip/internal/infrastructure/vault"
	"github.com/semmidev/arsip/internal/usecase"
)

type App struct {
	config    *config.Config
	logger    *logger.Logger
	catalog   domain.Catalog
	manager   *usecase.Manager
	scheduler *scheduler.Scheduler
}

func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Infof("Starting %s", cfg.App.Name)
	log.Infof("Tracking %d database(s)", len(cfg.Databases))

	cat, err := openCatalog(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	targets := initializeUploadTargets(cfg, log)
	shipper := usecase.NewShipper(targets, log)

	manager, err := usecase.NewManager(usecase.Options{
		Root:          cfg.Backup.Directory,
		Databases:     cfg.TrackedDatabases(),
		RetainDaily:   cfg.Backup.RetainDaily,
		RetainWeekly:  cfg.Backup.RetainWeekly,
		RetainMonthly: cfg.Backup.RetainMonthly,
	}, cat, log, shipper)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backup manager: %w", err)
	}

	return &App{
		config:    cfg,
		logger:    log,
		catalog:   cat,
		manager:   manager,
		scheduler: scheduler.New(),
	}, nil
}

func openCatalog(cfg *config.Config, log *logger.Logger) (domain.Catalog, error) {
	switch cfg.Backup.CatalogBackend {
	case "badger":
		return catalog.NewBadger(filepath.Join(cfg.Backup.Directory, "catalog"))
	default:
		return catalog.NewFile(filepath.Join(cfg.Backup.Directory, "metadata.json"), log)
	}
}

func initializeUploadTargets(cfg *config.Config, log *logger.Logger) []usecase.UploadTarget {
	var targets []usecase.UploadTarget

	for _, targetCfg := range cfg.GetEnabledUploadTargets() {
		var stor domain.Uploader
		var err error

		switch targetCfg.Type {
		case "s3":
			accessKey, secretKey := targetCfg.AccessKey, targetCfg.SecretKey
			if targetCfg.VaultCredentialsPath != "" {
				accessKey, secretKey, err = s3CredentialsFromVault(cfg, targetCfg.VaultCredentialsPath)
				if err != nil {
					log.Errorf("Failed to fetch S3 credentials from Vault: %v", err)
					continue
				}
			}
			stor, err = storage.NewS3(&targetCfg, accessKey, secretKey)
			if err != nil {
				log.Errorf("Failed to initialize S3: %v", err)
				continue
			}
			log.Infof("✓ AWS S3 offsite target enabled (bucket: %s)", targetCfg.Bucket)

		case "gdrive":
			stor, err = storage.NewGDrive(&targetCfg)
			if err != nil {
				log.Errorf("Failed to initialize Google Drive: %v", err)
				continue
			}
			log.Infof("✓ Google Drive offsite target enabled")

		case "telegram":
			stor, err = storage.NewTelegram(&targetCfg)
			if err != nil {
				log.Errorf("Failed to initialize Telegram: %v", err)
				continue
			}
			log.Infof("✓ Telegram target enabled")

		default:
			log.Warnf("Unknown upload target type: %s", targetCfg.Type)
			continue
		}

		targets = append(targets, usecase.UploadTarget{
			Name:    targetCfg.Type,
			Storage: stor,
		})
	}

	return targets
}

func s3CredentialsFromVault(cfg *config.Config, path string) (string, string, error) {
	client, err := vault.NewClient(cfg.Vault.Address, cfg.Vault.Token, cfg.Vault.Mount)
	if err != nil {
		return "", "", err
	}
	return client.S3Credentials(context.Background(), path)
}

// Manager exposes the backup manager to one-shot CLI commands.
func (a *App) Manager() *usecase.Manager {
	return a.manager
}

func (a *App) Logger() *logger.Logger {
	return a.logger
}

// Run schedules the daily backup and the nightly orphan sweep, then blocks
// until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.config.Backup.Enabled {
		backupSpec := scheduler.DailySpec(a.config.Backup.ScheduleHour, a.config.Backup.ScheduleMinute)
		a.logger.Infof("Scheduling daily backup: %s", backupSpec)

		if err := a.scheduler.AddJob(backupSpec, func(ctx context.Context) error {
			a.logger.Infof("=== Triggered scheduled daily backup ===")
			_, err := a.manager.CreateBackup(ctx, domain.TierDaily, "system")
			if err != nil {
				a.logger.Errorf("Scheduled backup failed: %v", err)
			}
			return err
		}); err != nil {
			return fmt.Errorf("failed to schedule daily backup: %w", err)
		}
	} else {
		a.logger.Warnf("Scheduled backups are disabled; only the orphan sweep will run")
	}

	// Orphan sweep an hour after the backup window.
	cleanupSpec := scheduler.DailySpec((a.config.Backup.ScheduleHour+1)%24, a.config.Backup.ScheduleMinute)
	if err := a.scheduler.AddJob(cleanupSpec, func(ctx context.Context) error {
		removed, err := a.manager.Cleanup()
		if err != nil {
			a.logger.Errorf("Orphan sweep failed: %v", err)
			return err
		}
		if len(removed) > 0 {
			a.logger.Infof("Orphan sweep removed %d record(s)", len(removed))
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to schedule orphan sweep: %w", err)
	}

	a.scheduler.Start()
	a.logger.Infof("Scheduler started")

	<-ctx.Done()
	return nil
}

func (a *App) Shutdown() {
	a.logger.Infof("Shutting down...")
	a.scheduler.Stop()
	if err := a.catalog.Close(); err != nil {
		a.logger.Errorf("Failed to close catalog: %v", err)
	}
	a.logger.Close()
}
