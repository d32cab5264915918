// Package cli wires the backup manager's operations into operator-facing
// cobra subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/semmidev/arsip/internal/app"
	"github.com/semmidev/arsip/internal/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "arsip",
	Short: "Tiered backup manager for the attendance system's databases",
	Long: `arsip snapshots the application's database files into daily, weekly and
monthly retention tiers, verifies stored checksums and restores from any
retained snapshot.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configFile, "config", "c", "configs/config.yaml", "path to YAML config file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(usageCmd)
}

// withApp loads config, builds the application and hands it to fn, shutting
// everything down afterwards.
func withApp(fn func(*app.App) error) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer application.Shutdown()

	return fn(application)
}
