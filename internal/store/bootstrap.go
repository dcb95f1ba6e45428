package store

import (
	"context"

	"studiobook/internal/config"
	"studiobook/internal/domain"
	"studiobook/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Defaults are written by Bootstrap when a seeded collection is missing.
type Defaults struct {
	Services  []models.Service
	TimeSlots []string
}

// DefaultsFromConfig converts the configured seeds into models.
func DefaultsFromConfig(cfg *config.Config) Defaults {
	services := make([]models.Service, 0, len(cfg.Services))
	for _, s := range cfg.Services {
		services = append(services, models.Service{
			ID:          models.ID(s.ID),
			Name:        s.Name,
			Duration:    s.Duration,
			Price:       decimal.NewFromFloat(s.Price),
			Description: s.Description,
		})
	}
	return Defaults{
		Services:  services,
		TimeSlots: append([]string(nil), cfg.Booking.TimeSlots...),
	}
}

// Bootstrap initializes the catalog and the time slots if absent. A key that
// is missing, malformed or holds an empty list is seeded, so both
// collections are never empty after startup. Overrides and bookings start
// empty and are left alone.
func Bootstrap(ctx context.Context, s domain.Store, defaults Defaults, logger *zerolog.Logger) error {
	services, err := Load[models.Service](ctx, s, KeyServices, logger)
	if err != nil {
		return err
	}
	if len(services) == 0 && len(defaults.Services) > 0 {
		if err := Save(ctx, s, KeyServices, defaults.Services); err != nil {
			return err
		}
		logger.Info().Int("count", len(defaults.Services)).Msg("seeded default services")
	}

	slots, err := Load[string](ctx, s, KeyTimeSlots, logger)
	if err != nil {
		return err
	}
	if len(slots) == 0 && len(defaults.TimeSlots) > 0 {
		if err := Save(ctx, s, KeyTimeSlots, defaults.TimeSlots); err != nil {
			return err
		}
		logger.Info().Strs("slots", defaults.TimeSlots).Msg("seeded default time slots")
	}

	return nil
}
