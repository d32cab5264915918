package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/semmidev/arsip/internal/app"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <backup-id>",
	Short: "Restore the live databases from a retained backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			restoredFrom, err := application.Manager().RestoreBackup(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Restored from %s\n", restoredFrom)
			return nil
		})
	},
}
