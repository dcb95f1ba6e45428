// Package store persists the studio's collections as JSON documents in a
// key-value backend. Every collection is written wholesale.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"studiobook/internal/domain"

	"github.com/rs/zerolog"
)

const (
	KeyServices     = "booking_services"
	KeyAvailability = "booking_availability"
	KeyTimeSlots    = "booking_timeslots"
	KeyBookings     = "booking_requests"
)

var ErrClosed = errors.New("store is closed")

// Load reads the collection under key. A missing key yields an empty slice.
// A value that does not decode is logged and replaced by an empty slice, so
// corrupt data never reaches callers. Only backend failures are returned.
func Load[T any](ctx context.Context, s domain.Store, key string, logger *zerolog.Logger) ([]T, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return []T{}, nil
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		if logger != nil {
			logger.Warn().Err(err).Str("key", key).Msg("malformed stored value, using empty collection")
		}
		return []T{}, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Save overwrites the collection under key.
func Save[T any](ctx context.Context, s domain.Store, key string, values []T) error {
	if values == nil {
		values = []T{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
