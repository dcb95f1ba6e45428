package repository

import (
	"context"
	"testing"
	"time"

	"studiobook/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySelectionRepository(t *testing.T) {
	repo := NewMemorySelectionRepository(time.Hour)
	ctx := context.Background()

	t.Run("SaveAndGetSelection", func(t *testing.T) {
		sel := models.NewSelection("s-1")
		sel.Step = models.StepSelectDateTime
		sel.Service = &models.Service{ID: "1", Name: "Event Coverage", Price: decimal.NewFromInt(500)}
		require.NoError(t, repo.SaveSelection(ctx, sel))

		got, err := repo.GetSelection(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, sel, got)

		// stored copy is detached from the caller
		sel.Service.Name = "changed"
		got, _ = repo.GetSelection(ctx, "s-1")
		assert.Equal(t, "Event Coverage", got.Service.Name)
	})

	t.Run("GetMissing", func(t *testing.T) {
		got, err := repo.GetSelection(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("DeleteSelection", func(t *testing.T) {
		require.NoError(t, repo.DeleteSelection(ctx, "s-1"))
		got, _ := repo.GetSelection(ctx, "s-1")
		assert.Nil(t, got)
	})

	t.Run("Expiry", func(t *testing.T) {
		now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
		r := NewMemorySelectionRepository(time.Minute)
		r.now = func() time.Time { return now }

		require.NoError(t, r.SaveSelection(ctx, models.NewSelection("s-2")))
		got, _ := r.GetSelection(ctx, "s-2")
		assert.NotNil(t, got)

		now = now.Add(2 * time.Minute)
		got, _ = r.GetSelection(ctx, "s-2")
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
		r := NewMemorySelectionRepository(time.Hour)
		r.now = func() time.Time { return now }

		reached, _ := r.RateLimitReached(ctx, "submit:1.2.3.4", 2)
		assert.False(t, reached)

		allowed, _ := r.CheckRateLimit(ctx, "submit:1.2.3.4", 2, time.Second)
		assert.True(t, allowed)
		reached, _ = r.RateLimitReached(ctx, "submit:1.2.3.4", 2)
		assert.False(t, reached)
		allowed, _ = r.CheckRateLimit(ctx, "submit:1.2.3.4", 2, time.Second)
		assert.True(t, allowed)

		// reading does not count
		for i := 0; i < 3; i++ {
			reached, _ = r.RateLimitReached(ctx, "submit:1.2.3.4", 2)
			assert.True(t, reached)
		}
		allowed, _ = r.CheckRateLimit(ctx, "submit:1.2.3.4", 2, time.Second)
		assert.False(t, allowed)

		now = now.Add(time.Second + 10*time.Millisecond)
		reached, _ = r.RateLimitReached(ctx, "submit:1.2.3.4", 2)
		assert.False(t, reached)
		allowed, _ = r.CheckRateLimit(ctx, "submit:1.2.3.4", 2, time.Second)
		assert.True(t, allowed)
	})
}
