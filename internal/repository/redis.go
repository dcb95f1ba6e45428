package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studiobook/internal/domain"
	"studiobook/internal/models"

	"github.com/redis/go-redis/v9"
)

var _ domain.SelectionRepository = (*RedisSelectionRepository)(nil)

type RedisSelectionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSelectionRepository(client *redis.Client, ttl time.Duration) *RedisSelectionRepository {
	return &RedisSelectionRepository{
		client: client,
		ttl:    ttl,
	}
}

func selectionKey(sessionID string) string {
	return fmt.Sprintf("selection:%s", sessionID)
}

func (r *RedisSelectionRepository) GetSelection(ctx context.Context, sessionID string) (*models.Selection, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, selectionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get selection from redis: %w", err)
	}

	var sel models.Selection
	if err := json.Unmarshal([]byte(val), &sel); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selection: %w", err)
	}

	return &sel, nil
}

func (r *RedisSelectionRepository) SaveSelection(ctx context.Context, sel *models.Selection) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	if err := r.client.Set(ctx, selectionKey(sel.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set selection in redis: %w", err)
	}

	return nil
}

func (r *RedisSelectionRepository) DeleteSelection(ctx context.Context, sessionID string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, selectionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete selection from redis: %w", err)
	}
	return nil
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("rate_limit:%s", key)
}

func (r *RedisSelectionRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	rk := rateLimitKey(key)
	count, err := r.client.Incr(ctx, rk).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, rk, window)
	}

	return count <= int64(limit), nil
}

func (r *RedisSelectionRepository) RateLimitReached(ctx context.Context, key string, limit int) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	count, err := r.client.Get(ctx, rateLimitKey(key)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read rate limit: %w", err)
	}
	return count >= limit, nil
}
