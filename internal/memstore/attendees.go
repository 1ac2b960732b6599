package memstore

import (
	"context"
	"sort"
	"time"

	apperrors "mela/internal/errors"
	"mela/internal/models"
)

// Register serializes per event so the capacity check and the count
// increment are one atomic unit.
func (s *Store) Register(ctx context.Context, attendee *models.Attendee) error {
	lock := s.eventLocks.get(attendee.EventID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	event, ok := s.events[attendee.EventID]
	s.mu.RUnlock()
	if !ok {
		return apperrors.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.attendees[attendee.EventID] {
		if existing.UserID == attendee.UserID {
			return apperrors.ErrAlreadyRegistered
		}
	}

	if event.RegisteredCount >= event.Capacity {
		return apperrors.ErrEventFull
	}

	s.nextAttendeeID++
	attendee.ID = s.nextAttendeeID
	attendee.EventTitle = event.Title
	attendee.RegisteredDate = time.Now()

	s.attendees[attendee.EventID] = append(s.attendees[attendee.EventID], *attendee)
	event.RegisteredCount++

	return nil
}

func (s *Store) Unregister(ctx context.Context, eventID, userID int64) error {
	lock := s.eventLocks.get(eventID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.attendees[eventID]
	for i, existing := range list {
		if existing.UserID == userID {
			s.attendees[eventID] = append(list[:i:i], list[i+1:]...)
			if event, ok := s.events[eventID]; ok && event.RegisteredCount > 0 {
				event.RegisteredCount--
			}
			return nil
		}
	}

	return apperrors.ErrNotFound
}

func (s *Store) ListByEvent(ctx context.Context, eventID int64) ([]models.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Attendee, len(s.attendees[eventID]))
	copy(out, s.attendees[eventID])
	return out, nil
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]models.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Attendee
	for _, list := range s.attendees {
		for _, attendee := range list {
			if attendee.UserID == userID {
				out = append(out, attendee)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
