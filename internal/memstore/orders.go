package memstore

import (
	"context"
	"time"

	"mela/internal/models"
)

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.CreatedAt = time.Now()

	stored := *order
	stored.Items = make([]models.OrderItem, len(order.Items))
	copy(stored.Items, order.Items)
	for i := range stored.Items {
		stored.Items[i].OrderID = order.ID
	}

	s.orders[order.ID] = &stored
	s.orderIDs = append(s.orderIDs, order.ID)
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}

	out := *order
	out.Items = make([]models.OrderItem, len(order.Items))
	copy(out.Items, order.Items)
	return &out, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Order
	for i := len(s.orderIDs) - 1; i >= 0; i-- {
		order := s.orders[s.orderIDs[i]]
		if order.UserID != userID {
			continue
		}
		copied := *order
		copied.Items = make([]models.OrderItem, len(order.Items))
		copy(copied.Items, order.Items)
		out = append(out, copied)
	}

	return out, nil
}
