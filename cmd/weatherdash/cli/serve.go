package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weatherdash/internal/api/http"
	"github.com/i474232898/weatherdash/internal/config"
	"github.com/i474232898/weatherdash/internal/observability"
	"github.com/i474232898/weatherdash/internal/scheduler"
	"github.com/i474232898/weatherdash/internal/store"
	"github.com/i474232898/weatherdash/internal/weather"
	"github.com/i474232898/weatherdash/pkg/logger"
)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.AppConfig) error {
	base, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer base.Sync() //nolint:errcheck

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	// In-memory session store with configured retention.
	memStore := store.NewMemoryStore(cfg.SessionMax, cfg.SessionMaxAge)

	service := weather.NewService(memStore, weather.NewGenerator(),
		weather.WithLogger(logger.Named(base, "weather")),
		weather.WithMetrics(metrics),
	)

	sched := scheduler.New(service, cfg.PruneInterval, cfg.RegenerateInterval, logger.Named(base, "scheduler"))
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp(service, reg, logger.Named(base, "http"))

	errCh := make(chan error, 1)
	go func() {
		base.Info("server listening", zap.String("port", cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	// Wait for termination signal
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	base.Info("shutting down")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		base.Error("error during shutdown", zap.Error(err))
		return err
	}
	return nil
}
