package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/semmidev/arsip/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the backup daemon with the configured daily schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return application.Run(ctx)
		})
	},
}
