package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/kyoto-flow-api/internal/handler"
	"github.com/noah-isme/kyoto-flow-api/pkg/config"
	"github.com/noah-isme/kyoto-flow-api/pkg/logger"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if port > 0 {
				cfg.Port = port
			}

			logr, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logr.Sync() //nolint:errcheck

			if cfg.Env == config.EnvProduction {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg, logr)
			if err != nil {
				logr.Error("failed to build app", zap.Error(err))
				return err
			}
			a.start(ctx)
			defer a.close()

			router := handler.NewRouter(handler.RouterDeps{
				Config:    cfg,
				Logger:    logr,
				Metrics:   a.metrics,
				Itinerary: handler.NewItineraryHandler(a.itinerary, a.exporter),
				Health:    handler.NewMetricsHandler(a.metrics, a.checks),
			})

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "persistence", cfg.Persistence.Enabled)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					logr.Error("server failed", zap.Error(err))
					return err
				}
			case <-ctx.Done():
			}

			logr.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")
	return cmd
}
