package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig        `mapstructure:"app"`
	Databases []DatabaseConfig `mapstructure:"databases"`
	Backup    BackupConfig     `mapstructure:"backup"`
	Vault     VaultConfig      `mapstructure:"vault"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// DatabaseConfig names one tracked live database file. All tracked databases
// are snapshotted together as a unit.
type DatabaseConfig struct {
	Name string `mapstructure:"name"`
	Path string `mapstructure:"path"`
}

type BackupConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Directory      string `mapstructure:"directory"`
	ScheduleHour   int    `mapstructure:"schedule_hour"`
	ScheduleMinute int    `mapstructure:"schedule_minute"`
	RetainDaily    int    `mapstructure:"retain_daily"`
	RetainWeekly   int    `mapstructure:"retain_weekly"`
	RetainMonthly  int    `mapstructure:"retain_monthly"`

	// CatalogBackend selects the metadata store: "file" or "badger".
	CatalogBackend string `mapstructure:"catalog_backend"`

	UploadTargets []UploadTarget `mapstructure:"upload_targets"`
}

type UploadTarget struct {
	Type    string `mapstructure:"type"`
	Enabled bool   `mapstructure:"enabled"`

	// Google Drive
	CredentialsFile string `mapstructure:"credentials_file"`
	FolderID        string `mapstructure:"folder_id"`

	// AWS S3
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
	// When set, access/secret keys are read from this Vault KV path instead
	// of the fields above.
	VaultCredentialsPath string `mapstructure:"vault_credentials_path"`

	// Telegram
	BotToken   string `mapstructure:"bot_token"`
	ChatID     string `mapstructure:"chat_id"`
	SendFile   bool   `mapstructure:"send_file"`
	NotifyOnly bool   `mapstructure:"notify_only"`
}

type VaultConfig struct {
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
	Mount   string `mapstructure:"mount"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("app.name", "arsip")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("backup.enabled", true)
	v.SetDefault("backup.schedule_hour", 2)
	v.SetDefault("backup.schedule_minute", 0)
	v.SetDefault("backup.retain_daily", 7)
	v.SetDefault("backup.retain_weekly", 4)
	v.SetDefault("backup.retain_monthly", 12)
	v.SetDefault("backup.catalog_backend", "file")
	v.SetDefault("vault.mount", "secret")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Databases) == 0 {
		return fmt.Errorf("at least one tracked database is required")
	}

	seen := make(map[string]bool)
	for i, db := range c.Databases {
		if db.Name == "" {
			return fmt.Errorf("databases[%d]: name is required", i)
		}
		if db.Path == "" {
			return fmt.Errorf("databases[%d]: path is required", i)
		}
		if seen[db.Name] {
			return fmt.Errorf("databases[%d]: duplicate name %q", i, db.Name)
		}
		seen[db.Name] = true
	}

	if c.Backup.Directory == "" {
		return fmt.Errorf("backup.directory is required")
	}
	if c.Backup.RetainDaily < 1 || c.Backup.RetainWeekly < 1 || c.Backup.RetainMonthly < 1 {
		return fmt.Errorf("retention counts must be at least 1")
	}
	if c.Backup.ScheduleHour < 0 || c.Backup.ScheduleHour > 23 {
		return fmt.Errorf("backup.schedule_hour must be between 0 and 23")
	}
	if c.Backup.ScheduleMinute < 0 || c.Backup.ScheduleMinute > 59 {
		return fmt.Errorf("backup.schedule_minute must be between 0 and 59")
	}

	switch c.Backup.CatalogBackend {
	case "file", "badger":
	default:
		return fmt.Errorf("backup.catalog_backend must be \"file\" or \"badger\", got %q", c.Backup.CatalogBackend)
	}

	for i, target := range c.Backup.UploadTargets {
		if target.Enabled && target.Type == "" {
			return fmt.Errorf("backup.upload_targets[%d]: type is required", i)
		}
	}

	return nil
}

// TrackedDatabases returns the name-to-live-path mapping the manager consumes.
func (c *Config) TrackedDatabases() map[string]string {
	tracked := make(map[string]string, len(c.Databases))
	for _, db := range c.Databases {
		tracked[db.Name] = db.Path
	}
	return tracked
}

func (c *Config) GetEnabledUploadTargets() []UploadTarget {
	var enabled []UploadTarget
	for _, target := range c.Backup.UploadTargets {
		if target.Enabled {
			enabled = append(enabled, target)
		}
	}
	return enabled
}
