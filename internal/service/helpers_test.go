package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"studiobook/internal/calendar"
	"studiobook/internal/config"
	"studiobook/internal/events"
	"studiobook/internal/ids"
	"studiobook/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []*events.Event
}

func (r *recorder) handle(e *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store        *store.MemoryStore
	clock        *calendar.FixedClock
	bus          *events.EventBus
	events       *recorder
	catalog      *CatalogService
	availability *AvailabilityService
	slots        *TimeSlotService
	ledger       *LedgerService
	workflow     *Workflow
}

// newFixture wires the services over a seeded memory store with today
// fixed at 2025-06-10.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	ctx := context.Background()

	st := store.NewMemoryStore()
	var cfg config.Config
	cfg.Services = config.DefaultServices
	cfg.Booking.TimeSlots = config.DefaultTimeSlots
	require.NoError(t, store.Bootstrap(ctx, st, store.DefaultsFromConfig(&cfg), &logger))

	clock := &calendar.FixedClock{T: time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)}
	bus := events.NewEventBus()
	rec := &recorder{}
	for _, et := range []string{
		events.EventBookingSubmitted,
		events.EventBookingStatusChanged,
		events.EventBookingDeleted,
		events.EventServiceSaved,
		events.EventServiceDeleted,
		events.EventAvailabilityToggled,
	} {
		bus.Subscribe(et, rec.handle)
	}

	seq := ids.NewSequenceGenerator(0)
	f := &fixture{
		store:  st,
		clock:  clock,
		bus:    bus,
		events: rec,
	}
	f.catalog = NewCatalogService(st, seq, bus, &logger)
	f.availability = NewAvailabilityService(st, clock, 0, bus, &logger)
	f.slots = NewTimeSlotService(st, &logger)
	f.ledger = NewLedgerService(st, bus, &logger)
	f.workflow = NewWorkflow(f.catalog, f.availability, f.slots, f.ledger, seq, clock, bus, &logger)
	return f
}
