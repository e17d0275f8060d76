package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/api"
	"github.com/RichardoC/padchat/internal/db"
	"github.com/RichardoC/padchat/internal/llm"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, map[string]string{
			"server.addr":    "addr",
			"server.db_path": "db",
		})
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		if err := cfg.ValidateServer(); err != nil {
			return err
		}

		database, err := db.New(cfg.Server.DBPath)
		if err != nil {
			logger.Error("Failed to initialize database",
				zap.Error(err),
				zap.String("dbPath", cfg.Server.DBPath))
			return err
		}

		llmService, err := llm.New(llm.Options{
			BaseURL:      cfg.LLM.BaseURL,
			Token:        cfg.LLM.APIKey,
			DefaultModel: cfg.LLM.DefaultModel,
			SiteURL:      cfg.LLM.SiteURL,
			AppTitle:     cfg.LLM.AppTitle,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize LLM service", zap.Error(err))
			return multierr.Append(err, database.Close())
		}

		handler := api.NewHandler(database, llmService, cfg.Models, logger)
		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, srv, database, logger)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8100)")
	serveCmd.Flags().String("db", "", "SQLite database path (default padchat.db)")
}

// serve runs srv until ctx is cancelled, then shuts it down and closes the
// database.
func serve(ctx context.Context, srv *http.Server, database *db.Database, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}
	return multierr.Append(err, database.Close())
}
