package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studiobook/internal/api"
	"studiobook/internal/export"
	"studiobook/internal/logging"
	"studiobook/internal/metrics"
	"studiobook/internal/service"
	"studiobook/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the booking API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *configPath)
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	cfg := a.cfg
	logger := logging.Component(a.logger, "main")

	repo, err := a.sessions(ctx)
	if err != nil {
		return err
	}

	if sqlite, ok := a.store.(*store.SQLiteStore); ok {
		backups := store.NewBackupService(sqlite, cfg.Backup, logging.Component(a.logger, "backup"))
		go backups.Start(ctx)
	}

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
	}

	if n, err := a.ledger.PendingCount(ctx); err == nil {
		metrics.SetPending(n)
	}

	deps := api.Dependencies{
		Catalog:      a.catalog,
		Availability: a.availability,
		TimeSlots:    a.timeSlots,
		Ledger:       a.ledger,
		Workflow:     a.workflow,
		Sessions:     service.NewSessionService(repo, a.clock, *cfg.Booking.SubmitLimit, cfg.Booking.SubmitLimitWindow, logging.Component(a.logger, "sessions")),
		Exporter:     export.NewLedgerExporter(a.ledger, cfg.Exports.Path, cfg.Booking.Currency, a.clock, logging.Component(a.logger, "export")),
	}
	if health, ok := a.store.(api.HealthChecker); ok {
		deps.Health = health
	}
	if cfg.API.AdminToken == "" {
		logger.Warn().Msg("api.admin_token is empty, admin routes are disabled")
	}

	httpServer := api.NewHTTPServer(cfg.API, deps, logging.Component(a.logger, "api"))
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().
		Str("store", cfg.Store.Driver).
		Str("sessions", cfg.Sessions.Driver).
		Str("timezone", a.clock.Location().String()).
		Int("http_port", cfg.API.Port).
		Msg("studiobook started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}

	logger.Info().Msg("studiobook stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
