package domain

import (
	"context"
	"time"

	"studiobook/internal/models"
)

// Store is the key-value persistence every durable collection goes through.
// Set overwrites the whole value; there is no partial update.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type SelectionRepository interface {
	GetSelection(ctx context.Context, sessionID string) (*models.Selection, error)
	SaveSelection(ctx context.Context, sel *models.Selection) error
	DeleteSelection(ctx context.Context, sessionID string) error
	// CheckRateLimit counts one hit against key and reports whether it is
	// still within limit for the current window.
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	// RateLimitReached reports whether key already has limit hits in the
	// current window, without counting a new one.
	RateLimitReached(ctx context.Context, key string, limit int) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type IDGenerator interface {
	NewID() models.ID
}

type Clock interface {
	Now() time.Time
}

type Catalog interface {
	List(ctx context.Context) ([]models.Service, error)
	Get(ctx context.Context, id models.ID) (models.Service, error)
}

type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, date time.Time) (bool, error)
}

type TimeSlotProvider interface {
	Contains(ctx context.Context, slot string) (bool, error)
}

type BookingAppender interface {
	Append(ctx context.Context, booking models.BookingRequest) error
}
