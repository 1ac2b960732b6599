package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mela/internal/errors"
	"mela/internal/models"
)

func TestReserveAndRelease(t *testing.T) {
	env := newTestEnv(t)
	event := env.seedEvent(t, 100, models.TicketType{Name: "Normal", Price: 500, Remaining: 10})

	ctx := context.Background()
	reservation, err := env.services.Inventory.Reserve(ctx, event.ID, "Normal", 4)
	require.NoError(t, err)
	assert.NotEmpty(t, reservation.Token)
	assert.Equal(t, models.ReservationActive, reservation.Status)
	assert.Equal(t, 6, env.remaining(t, event.ID, "Normal"))

	require.NoError(t, env.services.Inventory.Release(ctx, reservation.Token))
	assert.Equal(t, 10, env.remaining(t, event.ID, "Normal"))
}

func TestReleaseIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	event := env.seedEvent(t, 100, models.TicketType{Name: "Normal", Price: 500, Remaining: 10})

	ctx := context.Background()
	reservation, err := env.services.Inventory.Reserve(ctx, event.ID, "Normal", 3)
	require.NoError(t, err)

	require.NoError(t, env.services.Inventory.Release(ctx, reservation.Token))
	require.NoError(t, env.services.Inventory.Release(ctx, reservation.Token))
	require.NoError(t, env.services.Inventory.Release(ctx, "no-such-token"))

	assert.Equal(t, 10, env.remaining(t, event.ID, "Normal"), "double release must not inflate stock")
}

func TestReserveInvalidQuantity(t *testing.T) {
	env := newTestEnv(t)
	event := env.seedEvent(t, 100, models.TicketType{Name: "Normal", Price: 500, Remaining: 10})

	for _, qty := range []int{0, -1, 1000} {
		_, err := env.services.Inventory.Reserve(context.Background(), event.ID, "Normal", qty)
		assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)
	}
}

func TestReserveOutOfStock(t *testing.T) {
	env := newTestEnv(t)
	event := env.seedEvent(t, 100, models.TicketType{Name: "Normal", Price: 500, Remaining: 2})

	_, err := env.services.Inventory.Reserve(context.Background(), event.ID, "Normal", 3)
	assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
	assert.Equal(t, 2, env.remaining(t, event.ID, "Normal"), "failed reserve must not mutate stock")
}

func TestReserveUnknownTicketType(t *testing.T) {
	env := newTestEnv(t)
	event := env.seedEvent(t, 100, models.TicketType{Name: "Normal", Price: 500, Remaining: 2})

	_, err := env.services.Inventory.Reserve(context.Background(), event.ID, "Platinum", 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.services.Inventory.Availability(context.Background(), event.ID, "Platinum")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommittedReservationCannotBeReleased(t *testing.T) {
	env := newTestEnv(t)
	event := env.seedEvent(t, 100, models.TicketType{Name: "Normal", Price: 500, Remaining: 10})

	ctx := context.Background()
	reservation, err := env.services.Inventory.Reserve(ctx, event.ID, "Normal", 4)
	require.NoError(t, err)

	require.NoError(t, env.store.Commit(ctx, reservation.Token))
	require.NoError(t, env.services.Inventory.Release(ctx, reservation.Token))

	assert.Equal(t, 6, env.remaining(t, event.ID, "Normal"), "committed stock stays sold")
}

func TestExpireBeforeSweepsStaleReservations(t *testing.T) {
	env := newTestEnv(t)
	event := env.seedEvent(t, 100, models.TicketType{Name: "Normal", Price: 500, Remaining: 10})

	ctx := context.Background()
	_, err := env.services.Inventory.Reserve(ctx, event.ID, "Normal", 4)
	require.NoError(t, err)

	// Nothing is older than a cutoff in the past.
	n, err := env.services.Inventory.ExpireBefore(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 6, env.remaining(t, event.ID, "Normal"))

	n, err = env.services.Inventory.ExpireBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 10, env.remaining(t, event.ID, "Normal"))
	assert.Equal(t, 1, env.publisher.published(models.EventReservationExpired))
}
