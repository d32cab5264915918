package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/semmidev/arsip/internal/app"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all retained backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			items, err := application.Manager().ListBackups()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIER\tCREATED\tSIZE\tBY")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					item.ID,
					item.Tier,
					item.CreatedAt.Format("2006-01-02 15:04:05"),
					item.TotalSizeBytes,
					item.CreatedBy,
				)
			}
			return w.Flush()
		})
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show backup storage usage per tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			usage, err := application.Manager().StorageUsage()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIER\tCOUNT\tBYTES")
			for tier, count := range usage.CountByTier {
				fmt.Fprintf(w, "%s\t%d\t%d\n", tier, count, usage.ByTier[tier])
			}
			fmt.Fprintf(w, "total\t\t%d\n", usage.TotalBytes)
			return w.Flush()
		})
	},
}
