package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"studiobook/internal/domain"
	"studiobook/internal/models"

	"github.com/rs/zerolog"
)

var _ domain.SelectionRepository = (*FailoverSelectionRepository)(nil)

const recoveryInterval = time.Minute

// FailoverSelectionRepository serves from primary and switches to fallback
// when primary fails. Recovery is retried on reads once a minute.
type FailoverSelectionRepository struct {
	primary  domain.SelectionRepository
	fallback domain.SelectionRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverSelectionRepository(primary, fallback domain.SelectionRepository, logger *zerolog.Logger) *FailoverSelectionRepository {
	return &FailoverSelectionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSelectionRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary selection repository failed, falling back to memory")
	r.isDown.Store(true)
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

func (r *FailoverSelectionRepository) shouldRetryPrimary() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.lastCheck) <= recoveryInterval {
		return false
	}
	r.lastCheck = time.Now()
	return true
}

func (r *FailoverSelectionRepository) GetSelection(ctx context.Context, sessionID string) (*models.Selection, error) {
	if !r.isDown.Load() {
		sel, err := r.primary.GetSelection(ctx, sessionID)
		if err == nil {
			return sel, nil
		}
		r.markDown(err)
	}

	if r.isDown.Load() && r.shouldRetryPrimary() {
		sel, err := r.primary.GetSelection(ctx, sessionID)
		if err == nil {
			r.isDown.Store(false)
			r.logger.Info().Msg("Primary selection repository recovered")
			return sel, nil
		}
	}

	return r.fallback.GetSelection(ctx, sessionID)
}

func (r *FailoverSelectionRepository) SaveSelection(ctx context.Context, sel *models.Selection) error {
	if !r.isDown.Load() {
		err := r.primary.SaveSelection(ctx, sel)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SaveSelection(ctx, sel)
}

func (r *FailoverSelectionRepository) DeleteSelection(ctx context.Context, sessionID string) error {
	if !r.isDown.Load() {
		err := r.primary.DeleteSelection(ctx, sessionID)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.DeleteSelection(ctx, sessionID)
}

func (r *FailoverSelectionRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}

func (r *FailoverSelectionRepository) RateLimitReached(ctx context.Context, key string, limit int) (bool, error) {
	if !r.isDown.Load() {
		reached, err := r.primary.RateLimitReached(ctx, key, limit)
		if err == nil {
			return reached, nil
		}
		r.markDown(err)
	}

	return r.fallback.RateLimitReached(ctx, key, limit)
}
