package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Brownie44l1/plant-disease-api/internal/handlers"
	"github.com/Brownie44l1/plant-disease-api/internal/model"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the prediction HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		shutdownRuntime, err := startRuntime(cfg)
		if err != nil {
			return err
		}
		defer shutdownRuntime()

		a, err := newApp(cfg, logger, model.OpenONNX, true)
		if err != nil {
			return err
		}
		defer a.Close()

		// A missing default model should not keep the API from serving the
		// other species; the failure is reported again on request.
		if err := a.preload(cfg.Models.Preload); err != nil {
			logger.Warn("Model preload failed", zap.Error(err))
		}

		var hist handlers.HistoryReader
		if a.history != nil {
			hist = a.history
		}

		gin.SetMode(gin.ReleaseMode)
		h := handlers.NewHandler(a.service, a.registry, a.loader, hist, cfg.MaxUploadBytes(), logger)
		srv := &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           handlers.NewRouter(h, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server starting",
				zap.String("address", srv.Addr),
				zap.String("models_dir", cfg.Models.Dir),
				zap.Strings("endpoints", []string{"GET /health", "GET /species", "POST /predict", "GET /history"}))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
