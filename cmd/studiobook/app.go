package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"studiobook/internal/calendar"
	"studiobook/internal/config"
	"studiobook/internal/domain"
	"studiobook/internal/events"
	"studiobook/internal/ids"
	"studiobook/internal/logging"
	"studiobook/internal/models"
	"studiobook/internal/repository"
	"studiobook/internal/service"
	"studiobook/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// app holds everything built from the config. close releases it in reverse
// order of construction.
type app struct {
	cfg    *config.Config
	logger *zerolog.Logger
	clock  calendar.SystemClock
	store  domain.Store
	redis  *redis.Client
	bus    *events.EventBus

	catalog      *service.CatalogService
	availability *service.AvailabilityService
	timeSlots    *service.TimeSlotService
	ledger       *service.LedgerService
	workflow     *service.Workflow

	closers []io.Closer
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	a.clock = calendar.NewSystemClock(calendar.LoadLocation(cfg.App.Timezone, logger))

	if err := a.openStore(ctx); err != nil {
		a.close()
		return nil, err
	}

	if err := store.Bootstrap(ctx, a.store, store.DefaultsFromConfig(cfg), logging.Component(logger, "store")); err != nil {
		a.close()
		return nil, fmt.Errorf("bootstrap store: %w", err)
	}

	idgen, err := a.newIDGenerator(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	a.bus = events.NewEventBus()
	subscribeLogging(a.bus, logging.Component(logger, "events"))

	svcLogger := logging.Component(logger, "service")
	a.catalog = service.NewCatalogService(a.store, idgen, a.bus, svcLogger)
	a.availability = service.NewAvailabilityService(a.store, a.clock, cfg.Booking.MaxAdvanceDays, a.bus, svcLogger)
	a.timeSlots = service.NewTimeSlotService(a.store, svcLogger)
	a.ledger = service.NewLedgerService(a.store, a.bus, svcLogger)
	a.workflow = service.NewWorkflow(a.catalog, a.availability, a.timeSlots, a.ledger, idgen, a.clock, a.bus, svcLogger)

	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	storeLogger := logging.Component(a.logger, "store")

	switch a.cfg.Store.Driver {
	case "sqlite":
		st, err := store.NewSQLiteStore(a.cfg.Store.Path, storeLogger)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		a.store = st
	case "redis":
		client, err := a.redisClient(ctx)
		if err != nil {
			return err
		}
		a.store = store.NewRedisStore(client, a.cfg.Store.KeyPrefix)
	case "memory":
		a.logger.Warn().Msg("memory store selected, data is lost on exit")
		a.store = store.NewMemoryStore()
	default:
		return fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}
	a.closers = append(a.closers, a.store)
	return nil
}

var redisRetry = store.RetryPolicy{MaxRetries: 3, InitialDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second, BackoffFactor: 2}

// redisClient connects once and is shared by the store and the sessions.
func (a *app) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}
	client := store.NewRedisClient(a.cfg.Redis)
	if err := store.PingWithRetry(ctx, client, redisRetry, a.logger); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", a.cfg.Redis.Address, err)
	}
	a.logger.Info().Str("addr", a.cfg.Redis.Address).Msg("redis connected")
	a.redis = client
	a.closers = append(a.closers, client)
	return client, nil
}

// newIDGenerator seeds the sequence past every numeric id already stored,
// so ids from older data are never reused.
func (a *app) newIDGenerator(ctx context.Context) (domain.IDGenerator, error) {
	if a.cfg.Booking.IDStrategy != ids.StrategySequence {
		return ids.New(a.cfg.Booking.IDStrategy, 0)
	}

	services, err := store.Load[models.Service](ctx, a.store, store.KeyServices, a.logger)
	if err != nil {
		return nil, err
	}
	bookings, err := store.Load[models.BookingRequest](ctx, a.store, store.KeyBookings, a.logger)
	if err != nil {
		return nil, err
	}

	existing := make([]models.ID, 0, len(services)+len(bookings))
	for _, s := range services {
		existing = append(existing, s.ID)
	}
	for _, b := range bookings {
		existing = append(existing, b.ID)
	}
	return ids.New(ids.StrategySequence, ids.MaxNumeric(existing...))
}

// sessions builds the selection repository for the configured driver.
// Failover keeps sessions in memory while redis is unreachable.
func (a *app) sessions(ctx context.Context) (domain.SelectionRepository, error) {
	ttl := a.cfg.Sessions.TTL
	switch a.cfg.Sessions.Driver {
	case "memory":
		return repository.NewMemorySelectionRepository(ttl), nil
	case "redis":
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisSelectionRepository(client, ttl), nil
	case "failover":
		memory := repository.NewMemorySelectionRepository(ttl)
		client, err := a.redisClient(ctx)
		if err != nil {
			a.logger.Warn().Err(err).Msg("redis unavailable, sessions start on the memory fallback")
			client = store.NewRedisClient(a.cfg.Redis)
			a.closers = append(a.closers, client)
		}
		return repository.NewFailoverSelectionRepository(
			repository.NewRedisSelectionRepository(client, ttl),
			memory,
			logging.Component(a.logger, "sessions"),
		), nil
	default:
		return nil, fmt.Errorf("unknown sessions driver %q", a.cfg.Sessions.Driver)
	}
}

func (a *app) close() {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn().Err(err).Msg("shutdown cleanup failed")
	}
}

// subscribeLogging records every domain event. Notification channels hook in
// here.
func subscribeLogging(bus *events.EventBus, logger *zerolog.Logger) {
	handler := func(e *events.Event) error {
		logger.Info().Str("event", e.Type).RawJSON("payload", e.Payload).Msg("event published")
		return nil
	}
	for _, eventType := range []string{
		events.EventBookingSubmitted,
		events.EventBookingStatusChanged,
		events.EventBookingDeleted,
		events.EventServiceSaved,
		events.EventServiceDeleted,
		events.EventAvailabilityToggled,
	} {
		bus.Subscribe(eventType, handler)
	}
}
