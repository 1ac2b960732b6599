package service

import (
	"context"
	"fmt"
	"time"

	apperrors "mela/internal/errors"
	"mela/internal/logger"
	"mela/internal/metrics"
	"mela/internal/models"
)

type InventoryService struct {
	inventory InventoryStore
	publisher Publisher
}

func NewInventoryService(inventory InventoryStore, publisher Publisher) *InventoryService {
	return &InventoryService{inventory: inventory, publisher: publisher}
}

// Reserve atomically takes quantity tickets out of stock. The returned
// reservation's token is the handle for a compensating Release.
func (s *InventoryService) Reserve(ctx context.Context, eventID int64, ticketType string, quantity int) (*models.Reservation, error) {
	if quantity < 1 || quantity > 999 {
		return nil, apperrors.ErrInvalidQuantity
	}

	reservation, err := s.inventory.Reserve(ctx, eventID, ticketType, quantity)
	if err != nil {
		metrics.ReservationsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	metrics.ReservationsTotal.WithLabelValues("reserved").Inc()
	return reservation, nil
}

// Release is idempotent; failures are surfaced so callers can decide
// whether to retry, but a second call for the same token is harmless.
func (s *InventoryService) Release(ctx context.Context, token string) error {
	if err := s.inventory.Release(ctx, token); err != nil {
		return fmt.Errorf("failed to release reservation: %w", err)
	}
	metrics.ReservationsTotal.WithLabelValues("released").Inc()
	return nil
}

// Availability is a read-only snapshot; it may be stale the instant after
// it is read.
func (s *InventoryService) Availability(ctx context.Context, eventID int64, ticketType string) (int, error) {
	return s.inventory.Availability(ctx, eventID, ticketType)
}

// ExpireBefore sweeps stale ACTIVE reservations back into stock and
// publishes one event per released reservation.
func (s *InventoryService) ExpireBefore(ctx context.Context, cutoff time.Time) (int, error) {
	expired, err := s.inventory.ExpireBefore(ctx, cutoff)
	if err != nil {
		return len(expired), fmt.Errorf("failed to expire reservations: %w", err)
	}

	for _, res := range expired {
		metrics.ReservationsTotal.WithLabelValues("expired").Inc()

		event := models.ReservationExpiredEvent{
			Token:      res.Token,
			EventID:    res.EventID,
			TicketType: res.TicketType,
			Quantity:   res.Quantity,
			Timestamp:  time.Now(),
		}
		if err := s.publisher.Publish(models.EventReservationExpired, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish reservation expired event",
				"error", err,
				"token", res.Token,
				"event_type", "reservation.expired")
		}
	}

	return len(expired), nil
}
