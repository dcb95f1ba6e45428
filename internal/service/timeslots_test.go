package service

import (
	"context"
	"testing"

	"studiobook/internal/config"
	"studiobook/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSlotService_ListSeeded(t *testing.T) {
	f := newFixture(t)

	slots, err := f.slots.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTimeSlots, slots)

	ok, err := f.slots.Contains(context.Background(), "13:00")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.slots.Contains(context.Background(), "12:00")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTimeSlotService_Replace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.slots.Replace(ctx, []string{"18:00", "08:30"})
	require.NoError(t, err)
	assert.Equal(t, []string{"18:00", "08:30"}, got)

	slots, err := f.slots.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"18:00", "08:30"}, slots)

	for name, bad := range map[string][]string{
		"empty":     {},
		"format":    {"8:30"},
		"range":     {"24:00"},
		"duplicate": {"09:00", "09:00"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.slots.Replace(ctx, bad)
			ve, ok := validation.AsError(err)
			require.True(t, ok, "want validation error, got %v", err)
			assert.Equal(t, "slots", ve.Field)
		})
	}

	slots, err = f.slots.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"18:00", "08:30"}, slots)
}
