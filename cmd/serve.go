package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/songpeaks/api"
	"github.com/killallgit/songpeaks/api/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the SongPeaks API server with the configured settings.

The server exposes the derived video data endpoint used by the player UI,
along with health, metrics and API documentation routes.

Example:
  songpeaks serve
  songpeaks serve --port 9090
  songpeaks serve --host 0.0.0.0 --port 8080`,
		RunE: runServer,
	}
	cmd.Flags().String("host", "", "server host (overrides config)")
	cmd.Flags().Int("port", 0, "server port (overrides config)")
	return cmd
}

func runServer(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	serverCfg := a.cfg.Server
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		serverCfg.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		serverCfg.Port = port
	}

	if !a.cfg.HasHeatmapAPI() {
		a.logger.Warn("heatmap.base_url not set; /api/getYoutubeData will answer 500")
	}
	if a.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := api.NewServer(serverCfg, a.cfg.RateLimit, &types.Dependencies{
		DB:        a.db,
		VideoData: a.videoData,
		Cache:     a.cache,
		Metrics:   a.metrics,
		Logger:    a.logger.Named("http"),
		Version:   Version,
	})
	if err := srv.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	a.logger.Info("server listening", zap.String("addr", srv.Addr()))

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down server")
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.logger.Info("server gracefully stopped")
	return nil
}
