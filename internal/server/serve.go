package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/at-ishikawa/chat2dutch/internal/bootstrap"
	"github.com/at-ishikawa/chat2dutch/internal/config"
)

// Run serves the API on the configured port. The server stops through a shutdown hook of app.
func Run(ctx context.Context, app *bootstrap.App, cfg *config.Config) error {
	registry, err := app.NewRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("app.NewRegistry() > %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           NewRouter(NewHandler(registry), cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddShutdownHook("http", srv.Shutdown)

	slog.Default().Info("Starting server", "addr", srv.Addr, "storage", cfg.Storage.Driver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
