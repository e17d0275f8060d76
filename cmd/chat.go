package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/chat"
	"github.com/RichardoC/padchat/internal/cli"
	"github.com/RichardoC/padchat/internal/client"
)

const startupBanner = `
  padchat could not start: %v

  Check that the backend is running at %s and try again.
`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the backend from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, map[string]string{
			"client.base_url": "url",
		})
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		if err := cfg.ValidateClient(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		app := chat.New(client.New(cfg.Client.BaseURL, logger), logger)
		if err := app.Start(ctx); err != nil {
			logger.Error("Chat client failed to start", zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), startupBanner, err, cfg.Client.BaseURL)
			return err
		}

		return cli.New(app, cmd.OutOrStdout(), logger).Run(ctx, cmd.InOrStdin())
	},
}

func init() {
	chatCmd.Flags().String("url", "", "backend base URL (default http://localhost:8100)")
}
