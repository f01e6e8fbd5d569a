package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Start runs the HTTP server and the game module until ctx is cancelled,
// then shuts the server down gracefully.
func (app *App) Start(ctx context.Context) error {
	logger := app.Observability.Logger

	app.wg.Add(1)
	go app.GameModule.Run(ctx, &app.wg)

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", slog.String("addr", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
