package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/semmidev/arsip/internal/app"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <backup-id>",
	Short: "Recompute and check a backup's stored checksums",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			result, err := application.Manager().VerifyBackup(args[0])
			if err != nil {
				return err
			}

			for name, check := range result.Databases {
				status := "ok"
				if !check.Valid {
					status = "CORRUPT"
				}
				fmt.Printf("%-12s %s\n", name, status)
			}

			if !result.Valid {
				return fmt.Errorf("backup %s failed verification", args[0])
			}
			fmt.Println("valid")
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <backup-id>",
	Short: "Delete a backup's files and catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			if err := application.Manager().DeleteBackup(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <backup-id> <dest-path>",
	Short: "Write a backup as a single .tar.zst archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			if err := application.Manager().ExportBackup(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Exported %s to %s\n", args[0], args[1])
			return nil
		})
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove catalog entries whose backing files are missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			removed, err := application.Manager().Cleanup()
			if err != nil {
				return err
			}

			if len(removed) == 0 {
				fmt.Println("No orphans found")
				return nil
			}
			for _, id := range removed {
				fmt.Printf("Removed orphan %s\n", id)
			}
			return nil
		})
	},
}
