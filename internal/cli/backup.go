package cli

import (
	"fmt"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/semmidev/arsip/internal/app"
	"github.com/semmidev/arsip/internal/domain"
)

var backupTier string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a backup of all tracked databases now",
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, ok := domain.ParseTier(backupTier)
		if !ok {
			return fmt.Errorf("unknown tier %q (expected daily, weekly, monthly or manual)", backupTier)
		}

		return withApp(func(application *app.App) error {
			createdBy := "system"
			if tier == domain.TierManual {
				createdBy = operatorName()
			}

			record, err := application.Manager().CreateBackup(cmd.Context(), tier, createdBy)
			if err != nil {
				return err
			}

			fmt.Printf("Created %s (%d bytes)\n", record.ID, record.TotalSize())
			return nil
		})
	},
}

func operatorName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "operator"
}

func init() {
	backupCmd.Flags().StringVarP(&backupTier, "tier", "t", "manual", "backup tier (daily, weekly, monthly, manual)")
}
