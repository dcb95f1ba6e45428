package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	st := NewRedisStore(client, "studio:")
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, Save(ctx, st, KeyTimeSlots, []string{"09:00"}))

		// prefixed key, no expiry
		assert.True(t, s.Exists("studio:"+KeyTimeSlots))
		assert.Zero(t, s.TTL("studio:"+KeyTimeSlots))

		slots, err := Load[string](ctx, st, KeyTimeSlots, &logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00"}, slots)
	})

	t.Run("Missing", func(t *testing.T) {
		_, found, err := st.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Corrupt", func(t *testing.T) {
		require.NoError(t, s.Set("studio:"+KeyBookings, "garbage"))
		got, err := Load[string](ctx, st, KeyBookings, &logger)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, st.Delete(ctx, KeyTimeSlots))
		assert.False(t, s.Exists("studio:"+KeyTimeSlots))
	})

	t.Run("NilClient", func(t *testing.T) {
		nilStore := NewRedisStore(nil, "")
		_, _, err := nilStore.Get(ctx, "k")
		assert.ErrorContains(t, err, "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
		assert.NoError(t, st.PingContext(ctx))
		assert.Error(t, NewRedisStore(nil, "").PingContext(ctx))
	})

	t.Run("ServerDown", func(t *testing.T) {
		s.SetError("LOADING")
		defer s.SetError("")
		_, _, err := st.Get(ctx, KeyServices)
		assert.Error(t, err)
	})
}
