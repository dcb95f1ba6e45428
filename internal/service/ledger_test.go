package service

import (
	"context"
	"testing"
	"time"

	"studiobook/internal/events"
	"studiobook/internal/models"
	"studiobook/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(id string, created time.Time, status models.BookingStatus) models.BookingRequest {
	return models.BookingRequest{
		ID:        models.ID(id),
		Service:   models.Service{ID: "1", Name: "Personal Photoshoot", Price: decimal.NewFromInt(250)},
		Date:      "2025-06-15",
		Time:      "10:00",
		Customer:  models.Customer{Name: "Ana", Email: "ana@example.com", Phone: "123"},
		Status:    status,
		CreatedAt: created,
	}
}

func bookingIDs(bookings []models.BookingRequest) []models.ID {
	out := make([]models.ID, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ID)
	}
	return out
}

func seedLedger(t *testing.T, f *fixture) {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	require.NoError(t, f.ledger.Append(ctx, booking("a", base, models.StatusPending)))
	require.NoError(t, f.ledger.Append(ctx, booking("b", base.Add(2*time.Hour), models.StatusPending)))
	require.NoError(t, f.ledger.Append(ctx, booking("c", base.Add(time.Hour), models.StatusRejected)))
	require.NoError(t, f.ledger.Append(ctx, booking("d", base.Add(2*time.Hour), models.StatusPending)))
}

func TestLedgerService_ListByRecency(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)

	list, err := f.ledger.ListByRecency(context.Background())
	require.NoError(t, err)
	// b and d tie; the later append comes first
	assert.Equal(t, []models.ID{"d", "b", "c", "a"}, bookingIDs(list))
}

func TestLedgerService_ListEmptyAndCorrupt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.ledger.ListByRecency(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, f.store.Set(ctx, store.KeyBookings, []byte("oops")))
	list, err = f.ledger.ListByRecency(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLedgerService_SetStatus(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)
	ctx := context.Background()

	before, _ := f.ledger.ListByRecency(ctx)

	updated, err := f.ledger.SetStatus(ctx, "b", models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	after, err := f.ledger.ListByRecency(ctx)
	require.NoError(t, err)
	assert.Equal(t, bookingIDs(before), bookingIDs(after), "status change must not reorder")
	assert.Equal(t, models.StatusConfirmed, after[1].Status)
	assert.Equal(t, before[1].CreatedAt, after[1].CreatedAt)

	t.Run("FinalStatesStay", func(t *testing.T) {
		_, err := f.ledger.SetStatus(ctx, "b", models.StatusRejected)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = f.ledger.SetStatus(ctx, "c", models.StatusConfirmed)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		got, _ := f.ledger.Get(ctx, "b")
		assert.Equal(t, models.StatusConfirmed, got.Status)
	})

	t.Run("OnlyConfirmOrReject", func(t *testing.T) {
		_, err := f.ledger.SetStatus(ctx, "a", models.StatusPending)
		assert.ErrorIs(t, err, ErrInvalidStatus)
		_, err = f.ledger.SetStatus(ctx, "a", "cancelled")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.ledger.SetStatus(ctx, "zzz", models.StatusRejected)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	assert.Equal(t, []string{events.EventBookingStatusChanged}, f.events.types())
}

func TestLedgerService_Delete(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)
	ctx := context.Background()

	assert.ErrorIs(t, f.ledger.Delete(ctx, "a", false), ErrConfirmationRequired)
	assert.ErrorIs(t, f.ledger.Delete(ctx, "nope", true), ErrBookingNotFound)

	require.NoError(t, f.ledger.Delete(ctx, "a", true))
	_, err := f.ledger.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	list, _ := f.ledger.ListByRecency(ctx)
	assert.Equal(t, []models.ID{"d", "b", "c"}, bookingIDs(list))
	assert.Equal(t, []string{events.EventBookingDeleted}, f.events.types())
}

func TestLedgerService_PendingAndFilter(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)
	ctx := context.Background()

	n, err := f.ledger.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	pending, err := f.ledger.ListByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, []models.ID{"d", "b", "a"}, bookingIDs(pending))

	_, err = f.ledger.ListByStatus(ctx, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
