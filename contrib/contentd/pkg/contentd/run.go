package contentd

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const defaultShutdownTimeout = 5 * time.Second

// Run serves the API until ctx is done, then shuts down gracefully.
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	addr := fmt.Sprintf(":%s", a.config.ServerPort)
	a.logger.Info().
		Str("addr", addr).
		Str("backend", a.config.Backend).
		Str("storage", a.config.Storage).
		Bool("read_only", a.IsReadOnly()).
		Msg("Starting content server")

	server := &http.Server{
		Addr:    addr,
		Handler: a.Handler(),
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server...")
		a.hub.Close()
		timeout := a.config.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
