package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"studiobook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetSelection(ctx context.Context, sessionID string) (*models.Selection, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Selection), args.Error(1)
}

func (m *mockRepo) SaveSelection(ctx context.Context, sel *models.Selection) error {
	args := m.Called(ctx, sel)
	return args.Error(0)
}

func (m *mockRepo) DeleteSelection(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *mockRepo) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) RateLimitReached(ctx context.Context, key string, limit int) (bool, error) {
	args := m.Called(ctx, key, limit)
	return args.Bool(0), args.Error(1)
}

func TestFailoverSelectionRepository(t *testing.T) {
	primary := new(mockRepo)
	fallback := new(mockRepo)
	logger := zerolog.New(io.Discard)
	repo := NewFailoverSelectionRepository(primary, fallback, &logger)
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		sel := models.NewSelection("a")
		primary.On("GetSelection", ctx, "a").Return(sel, nil).Once()

		got, err := repo.GetSelection(ctx, "a")
		assert.NoError(t, err)
		assert.Equal(t, sel, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		sel := models.NewSelection("b")
		primary.On("GetSelection", ctx, "b").Return(nil, errors.New("fail")).Once()
		fallback.On("GetSelection", ctx, "b").Return(sel, nil).Once()

		got, err := repo.GetSelection(ctx, "b")
		assert.NoError(t, err)
		assert.Equal(t, sel, got)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)

		sel := models.NewSelection("c")
		primary.On("GetSelection", ctx, "c").Return(sel, nil).Once()

		got, err := repo.GetSelection(ctx, "c")
		assert.NoError(t, err)
		assert.Equal(t, sel, got)
		assert.False(t, repo.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("RecoveryAttemptFail", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)

		primary.On("GetSelection", ctx, "d").Return(nil, errors.New("still fail")).Once()
		fallback.On("GetSelection", ctx, "d").Return(nil, nil).Once()

		_, err := repo.GetSelection(ctx, "d")
		assert.NoError(t, err)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("NoRecoveryWithinInterval", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now()

		fallback.On("GetSelection", ctx, "e").Return(nil, nil).Once()

		_, err := repo.GetSelection(ctx, "e")
		assert.NoError(t, err)
		primary.AssertNotCalled(t, "GetSelection", ctx, "e")
		fallback.AssertExpectations(t)
	})

	t.Run("SaveSelectionSuccess", func(t *testing.T) {
		repo.isDown.Store(false)
		sel := models.NewSelection("f")
		primary.On("SaveSelection", ctx, sel).Return(nil).Once()

		assert.NoError(t, repo.SaveSelection(ctx, sel))
		primary.AssertExpectations(t)
	})

	t.Run("SaveSelectionFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		sel := models.NewSelection("g")
		primary.On("SaveSelection", ctx, sel).Return(errors.New("fail")).Once()
		fallback.On("SaveSelection", ctx, sel).Return(nil).Once()

		assert.NoError(t, repo.SaveSelection(ctx, sel))
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("DeleteSelectionFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("DeleteSelection", ctx, "h").Return(errors.New("fail")).Once()
		fallback.On("DeleteSelection", ctx, "h").Return(nil).Once()

		assert.NoError(t, repo.DeleteSelection(ctx, "h"))
		assert.True(t, repo.isDown.Load())
		fallback.AssertExpectations(t)
	})

	t.Run("CheckRateLimitSuccess", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("CheckRateLimit", ctx, "submit:x", 10, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "submit:x", 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		primary.AssertExpectations(t)
	})

	t.Run("CheckRateLimitFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("CheckRateLimit", ctx, "submit:y", 10, time.Minute).Return(false, errors.New("fail")).Once()
		fallback.On("CheckRateLimit", ctx, "submit:y", 10, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "submit:y", 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, repo.isDown.Load())
		fallback.AssertExpectations(t)
	})

	t.Run("RateLimitReachedFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("RateLimitReached", ctx, "submit:z", 3).Return(false, errors.New("fail")).Once()
		fallback.On("RateLimitReached", ctx, "submit:z", 3).Return(true, nil).Once()

		reached, err := repo.RateLimitReached(ctx, "submit:z", 3)
		assert.NoError(t, err)
		assert.True(t, reached)
		assert.True(t, repo.isDown.Load())
		fallback.AssertExpectations(t)
	})

	t.Run("AlreadyDown", func(t *testing.T) {
		repo.isDown.Store(true)
		sel := models.NewSelection("i")
		fallback.On("SaveSelection", ctx, sel).Return(nil).Once()
		fallback.On("DeleteSelection", ctx, "i").Return(nil).Once()

		assert.NoError(t, repo.SaveSelection(ctx, sel))
		assert.NoError(t, repo.DeleteSelection(ctx, "i"))
		fallback.AssertExpectations(t)
	})
}
