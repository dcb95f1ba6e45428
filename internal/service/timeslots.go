package service

import (
	"context"
	"slices"
	"sync"

	"studiobook/internal/domain"
	"studiobook/internal/store"
	"studiobook/internal/validation"

	"github.com/rs/zerolog"
)

var _ domain.TimeSlotProvider = (*TimeSlotService)(nil)

type TimeSlotService struct {
	store  domain.Store
	logger *zerolog.Logger
	mu     sync.Mutex
}

func NewTimeSlotService(st domain.Store, logger *zerolog.Logger) *TimeSlotService {
	return &TimeSlotService{store: st, logger: logger}
}

// List returns the bookable start times in their configured order.
func (s *TimeSlotService) List(ctx context.Context) ([]string, error) {
	return store.Load[string](ctx, s.store, store.KeyTimeSlots, s.logger)
}

func (s *TimeSlotService) Contains(ctx context.Context, slot string) (bool, error) {
	slots, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(slots, slot), nil
}

// Replace overwrites the slot list, keeping the given order.
func (s *TimeSlotService) Replace(ctx context.Context, slots []string) ([]string, error) {
	if err := validation.Var("slots", slots, validation.TimeSlotsRule); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots = slices.Clone(slots)
	if err := store.Save(ctx, s.store, store.KeyTimeSlots, slots); err != nil {
		return nil, err
	}
	s.logger.Info().Strs("slots", slots).Msg("time slots replaced")
	return slots, nil
}
