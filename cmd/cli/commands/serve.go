package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-roster/pkg/api"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the volunteer roster HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := app.Cfg.Server.ListenAddr
			if override, _ := cmd.Flags().GetString("addr"); override != "" {
				addr = override
			}

			gin.SetMode(gin.ReleaseMode)
			server := api.NewServer(app.Service, app.Logger, app.Metrics)

			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serveUntilDone(ctx, server, addr, app)
		},
	}

	cmd.Flags().String("addr", "", "Listen address, overriding server.listenAddr")

	return cmd
}

type runner interface {
	Run(addr string) error
	Shutdown(ctx context.Context) error
}

// serveUntilDone runs the server until it fails or ctx is cancelled, then
// waits up to server.shutdownTimeout for in-flight requests
func serveUntilDone(ctx context.Context, server runner, addr string, app *AppContext) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run(addr)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	app.Logger.Info("Shutting down HTTP server", zap.Duration("timeout", app.Cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	app.Logger.Info("HTTP server stopped")
	return nil
}
