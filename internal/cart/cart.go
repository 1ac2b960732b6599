package cart

import (
	"context"
	"fmt"

	apperrors "mela/internal/errors"
	"mela/internal/models"
)

// MaxQuantity caps any single cart line.
const MaxQuantity = 999

// Store persists one cart per buyer session. Implementations only need to
// be safe across sessions; a session belongs to a single buyer, so
// read-modify-write per session is acceptable.
type Store interface {
	Snapshot(ctx context.Context, sessionID string) ([]models.CartItem, error)
	Save(ctx context.Context, sessionID string, items []models.CartItem) error
	Clear(ctx context.Context, sessionID string) error
}

// Ledger applies the cart rules (key merge, quantity clamps) on top of a
// Store. It holds no inventory locks: capacity is enforced at checkout only.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// AddItem appends a line, merging into an existing line with the same
// (event, ticket type) key by summing quantities, clamped to MaxQuantity.
func (l *Ledger) AddItem(ctx context.Context, sessionID string, item models.CartItem) error {
	if item.Quantity < 1 || item.Quantity > MaxQuantity {
		return apperrors.ErrInvalidQuantity
	}

	item.Key = models.ItemKey(item.EventID, item.TicketType)

	items, err := l.store.Snapshot(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	merged := false
	for i := range items {
		if items[i].Key == item.Key {
			items[i].Quantity += item.Quantity
			if items[i].Quantity > MaxQuantity {
				items[i].Quantity = MaxQuantity
			}
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}

	return l.store.Save(ctx, sessionID, items)
}

// UpdateQuantity sets a line's quantity, clamped into [1, MaxQuantity].
// Removing a line goes through RemoveItem, never through quantity zero.
func (l *Ledger) UpdateQuantity(ctx context.Context, sessionID, key string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}

	items, err := l.store.Snapshot(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	for i := range items {
		if items[i].Key == key {
			items[i].Quantity = quantity
			return l.store.Save(ctx, sessionID, items)
		}
	}

	return apperrors.ErrNotFound
}

// RemoveItem drops the line with the given key.
func (l *Ledger) RemoveItem(ctx context.Context, sessionID, key string) error {
	items, err := l.store.Snapshot(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	kept := items[:0]
	found := false
	for _, item := range items {
		if item.Key == key {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return apperrors.ErrNotFound
	}

	return l.store.Save(ctx, sessionID, kept)
}

// Clear empties the session's cart.
func (l *Ledger) Clear(ctx context.Context, sessionID string) error {
	return l.store.Clear(ctx, sessionID)
}

// Snapshot returns the cart lines in insertion order.
func (l *Ledger) Snapshot(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	return l.store.Snapshot(ctx, sessionID)
}
