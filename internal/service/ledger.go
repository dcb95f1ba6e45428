package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"studiobook/internal/domain"
	"studiobook/internal/events"
	"studiobook/internal/metrics"
	"studiobook/internal/models"
	"studiobook/internal/store"

	"github.com/rs/zerolog"
)

var _ domain.BookingAppender = (*LedgerService)(nil)

// LedgerService owns the submitted booking requests. Every mutation rewrites
// the whole collection.
type LedgerService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	mu       sync.Mutex
}

func NewLedgerService(st domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *LedgerService {
	return &LedgerService{
		store:    st,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *LedgerService) load(ctx context.Context) ([]models.BookingRequest, error) {
	return store.Load[models.BookingRequest](ctx, s.store, store.KeyBookings, s.logger)
}

// Append adds a submitted request. Only the workflow calls it.
func (s *LedgerService) Append(ctx context.Context, booking models.BookingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.load(ctx)
	if err != nil {
		return err
	}
	bookings = append(bookings, booking)
	if err := store.Save(ctx, s.store, store.KeyBookings, bookings); err != nil {
		return err
	}
	metrics.SetPending(countPending(bookings))
	return nil
}

// ListByRecency returns all requests, newest first. Requests created at the
// same instant are ordered by most recently appended.
func (s *LedgerService) ListByRecency(ctx context.Context) ([]models.BookingRequest, error) {
	bookings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(bookings)
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

// ListByStatus filters ListByRecency by status.
func (s *LedgerService) ListByStatus(ctx context.Context, status models.BookingStatus) ([]models.BookingRequest, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	bookings, err := s.ListByRecency(ctx)
	if err != nil {
		return nil, err
	}
	out := bookings[:0]
	for _, b := range bookings {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *LedgerService) Get(ctx context.Context, id models.ID) (models.BookingRequest, error) {
	bookings, err := s.load(ctx)
	if err != nil {
		return models.BookingRequest{}, err
	}
	if i := indexOfBooking(bookings, id); i >= 0 {
		return bookings[i], nil
	}
	return models.BookingRequest{}, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
}

// SetStatus confirms or rejects a pending request. Confirmed and rejected
// are final.
func (s *LedgerService) SetStatus(ctx context.Context, id models.ID, status models.BookingStatus) (models.BookingRequest, error) {
	if status != models.StatusConfirmed && status != models.StatusRejected {
		return models.BookingRequest{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.load(ctx)
	if err != nil {
		return models.BookingRequest{}, err
	}
	i := indexOfBooking(bookings, id)
	if i < 0 {
		return models.BookingRequest{}, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}

	prev := bookings[i].Status
	if prev != models.StatusPending {
		return models.BookingRequest{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev, status)
	}

	bookings[i].Status = status
	if err := store.Save(ctx, s.store, store.KeyBookings, bookings); err != nil {
		return models.BookingRequest{}, err
	}

	s.logger.Info().Str("booking_id", id.String()).Str("status", string(status)).Msg("booking status changed")
	metrics.IncStatusChange(string(status))
	metrics.SetPending(countPending(bookings))
	publish(s.eventBus, s.logger, events.EventBookingStatusChanged, bookingPayload(bookings[i], prev))
	return bookings[i], nil
}

func (s *LedgerService) Delete(ctx context.Context, id models.ID, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexOfBooking(bookings, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}

	removed := bookings[i]
	bookings = append(bookings[:i], bookings[i+1:]...)
	if err := store.Save(ctx, s.store, store.KeyBookings, bookings); err != nil {
		return err
	}

	s.logger.Info().Str("booking_id", id.String()).Msg("booking deleted")
	metrics.SetPending(countPending(bookings))
	publish(s.eventBus, s.logger, events.EventBookingDeleted, bookingPayload(removed, ""))
	return nil
}

// PendingCount backs the admin badge.
func (s *LedgerService) PendingCount(ctx context.Context) (int, error) {
	bookings, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return countPending(bookings), nil
}

func countPending(bookings []models.BookingRequest) int {
	n := 0
	for _, b := range bookings {
		if b.Status == models.StatusPending {
			n++
		}
	}
	return n
}

func indexOfBooking(bookings []models.BookingRequest, id models.ID) int {
	for i := range bookings {
		if bookings[i].ID == id {
			return i
		}
	}
	return -1
}
