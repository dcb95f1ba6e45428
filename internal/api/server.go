package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"studiobook/internal/config"
	"studiobook/internal/export"
	"studiobook/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// HealthChecker reports whether the backing store answers.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Dependencies are the services the HTTP surface calls into. Health is
// optional; without it /healthz only reports that the process is up.
type Dependencies struct {
	Catalog      *service.CatalogService
	Availability *service.AvailabilityService
	TimeSlots    *service.TimeSlotService
	Ledger       *service.LedgerService
	Workflow     *service.Workflow
	Sessions     *service.SessionService
	Exporter     *export.LedgerExporter
	Health       HealthChecker
}

// HTTPServer exposes the booking workflow to the site and the admin panel.
type HTTPServer struct {
	cfg    config.APIConfig
	deps   Dependencies
	server *http.Server
	logger *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, deps Dependencies, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{cfg: cfg, deps: deps, logger: logger}

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Routes builds the router. Exposed for tests.
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	limiter := newRateLimiter(&s.cfg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Get("/services", s.handleListServices)
		r.Get("/timeslots", s.handleListTimeSlots)
		r.Get("/calendar/{year}/{month}", s.handleMonth)

		r.Post("/sessions", s.handleStartSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDiscardSession)
			r.Post("/service", s.handleSelectService)
			r.Post("/date", s.handleSelectDate)
			r.Post("/time", s.handleSelectTime)
			r.Post("/contact", s.handleUpdateContact)
			r.Post("/next", s.handleNext)
			r.Post("/back", s.handleBack)
			r.Post("/submit", s.handleSubmit)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth(s.cfg.AdminToken))

			r.Post("/services", s.handleCreateService)
			r.Put("/services/{id}", s.handleUpdateService)
			r.Delete("/services/{id}", s.handleDeleteService)

			r.Get("/availability", s.handleListOverrides)
			r.Post("/availability/{date}/toggle", s.handleToggleOverride)

			r.Put("/timeslots", s.handleReplaceTimeSlots)

			r.Get("/bookings", s.handleListBookings)
			r.Get("/bookings/pending-count", s.handlePendingCount)
			r.Get("/bookings/export", s.handleExportBookings)
			r.Get("/bookings/{id}", s.handleGetBooking)
			r.Patch("/bookings/{id}/status", s.handleSetBookingStatus)
			r.Delete("/bookings/{id}", s.handleDeleteBooking)
		})
	})

	return r
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Health.PingContext(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("store health check failed")
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
