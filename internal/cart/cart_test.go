package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mela/internal/errors"
	"mela/internal/models"
)

const session = "sess-1"

func newLedger() *Ledger {
	return NewLedger(NewMemoryStore())
}

func item(eventID int64, ticketType string, price int64, qty int) models.CartItem {
	return models.CartItem{
		EventID:    eventID,
		TicketType: ticketType,
		EventTitle: "Dashain Mela 2025",
		Price:      price,
		Quantity:   qty,
	}
}

func TestAddItemMergesByKey(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, session, item(1, "VIP", 1000, 2)))
	require.NoError(t, l.AddItem(ctx, session, item(1, "VIP", 1000, 3)))

	items, err := l.Snapshot(ctx, session)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "1_VIP", items[0].Key)
}

func TestAddItemDistinctKeysKeepOrder(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, session, item(1, "Normal", 500, 1)))
	require.NoError(t, l.AddItem(ctx, session, item(2, "Normal", 1500, 1)))
	require.NoError(t, l.AddItem(ctx, session, item(1, "VVIP", 2000, 1)))

	items, err := l.Snapshot(ctx, session)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "1_Normal", items[0].Key)
	assert.Equal(t, "2_Normal", items[1].Key)
	assert.Equal(t, "1_VVIP", items[2].Key)
}

func TestAddItemClampsMergeAtMax(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, session, item(1, "Normal", 500, 998)))
	require.NoError(t, l.AddItem(ctx, session, item(1, "Normal", 500, 10)))

	items, err := l.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, items[0].Quantity)
}

func TestAddItemRejectsInvalidQuantity(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	assert.ErrorIs(t, l.AddItem(ctx, session, item(1, "Normal", 500, 0)), apperrors.ErrInvalidQuantity)
	assert.ErrorIs(t, l.AddItem(ctx, session, item(1, "Normal", 500, -4)), apperrors.ErrInvalidQuantity)
	assert.ErrorIs(t, l.AddItem(ctx, session, item(1, "Normal", 500, 1000)), apperrors.ErrInvalidQuantity)
}

func TestUpdateQuantityClampsToMinimumOne(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, session, item(1, "VIP", 1000, 4)))
	require.NoError(t, l.UpdateQuantity(ctx, session, "1_VIP", -10))

	items, err := l.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestUpdateQuantityUnknownKey(t *testing.T) {
	l := newLedger()
	err := l.UpdateQuantity(context.Background(), session, "9_VIP", 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRemoveItem(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, session, item(1, "Normal", 500, 1)))
	require.NoError(t, l.AddItem(ctx, session, item(1, "VIP", 1000, 1)))
	require.NoError(t, l.RemoveItem(ctx, session, "1_Normal"))

	items, err := l.Snapshot(ctx, session)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1_VIP", items[0].Key)

	assert.ErrorIs(t, l.RemoveItem(ctx, session, "1_Normal"), apperrors.ErrNotFound)
}

func TestClear(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, session, item(1, "Normal", 500, 2)))
	require.NoError(t, l.Clear(ctx, session))

	items, err := l.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSessionsAreIsolated(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, "sess-a", item(1, "Normal", 500, 1)))
	require.NoError(t, l.AddItem(ctx, "sess-b", item(1, "Normal", 500, 7)))

	a, err := l.Snapshot(ctx, "sess-a")
	require.NoError(t, err)
	b, err := l.Snapshot(ctx, "sess-b")
	require.NoError(t, err)

	assert.Equal(t, 1, a[0].Quantity)
	assert.Equal(t, 7, b[0].Quantity)
}
