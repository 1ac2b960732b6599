package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "mela/internal/errors"
	"mela/internal/models"
)

// Reserve checks and decrements under the ticket type's own lock, so two
// buyers racing for the last ticket serialize there and the loser gets
// ErrOutOfStock with nothing mutated. The store mutex only guards map and
// field access; the per-ticket lock is what makes check-then-decrement one
// indivisible step.
func (s *Store) Reserve(ctx context.Context, eventID int64, ticketType string, quantity int) (*models.Reservation, error) {
	key := ticketKey{eventID, ticketType}
	lock := s.ticketLocks.get(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	tt, ok := s.tickets[key]
	remaining := 0
	if ok {
		remaining = tt.Remaining
	}
	s.mu.RUnlock()

	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if remaining < quantity {
		return nil, apperrors.ErrOutOfStock
	}

	reservation := &models.Reservation{
		Token:      uuid.New().String(),
		EventID:    eventID,
		TicketType: ticketType,
		Quantity:   quantity,
		Status:     models.ReservationActive,
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	tt.Remaining -= quantity
	tt.Version++
	s.reservations[reservation.Token] = reservation
	s.mu.Unlock()

	out := *reservation
	return &out, nil
}

// Release restores the reserved quantity exactly once; repeated calls and
// unknown tokens are no-ops.
func (s *Store) Release(ctx context.Context, token string) error {
	s.mu.Lock()
	reservation, ok := s.reservations[token]
	if !ok || reservation.Status != models.ReservationActive {
		s.mu.Unlock()
		return nil
	}
	reservation.Status = models.ReservationReleased

	if tt, ok := s.tickets[ticketKey{reservation.EventID, reservation.TicketType}]; ok {
		tt.Remaining += reservation.Quantity
		tt.Version++
	}
	s.mu.Unlock()

	return nil
}

func (s *Store) Commit(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reservation, ok := s.reservations[token]
	if ok && reservation.Status == models.ReservationActive {
		reservation.Status = models.ReservationCommitted
	}
	return nil
}

func (s *Store) Availability(ctx context.Context, eventID int64, ticketType string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tt, ok := s.tickets[ticketKey{eventID, ticketType}]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	return tt.Remaining, nil
}

func (s *Store) ExpireBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error) {
	s.mu.RLock()
	var stale []string
	for token, reservation := range s.reservations {
		if reservation.Status == models.ReservationActive && reservation.CreatedAt.Before(cutoff) {
			stale = append(stale, token)
		}
	}
	s.mu.RUnlock()

	var expired []models.Reservation
	for _, token := range stale {
		if err := s.Release(ctx, token); err != nil {
			return expired, err
		}

		s.mu.RLock()
		res := *s.reservations[token]
		s.mu.RUnlock()
		expired = append(expired, res)
	}

	return expired, nil
}
