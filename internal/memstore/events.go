package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"mela/internal/models"
)

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	event.ID = s.nextEventID
	event.CreatedAt = time.Now()

	stored := *event
	stored.TicketTypes = nil
	s.events[event.ID] = &stored

	for i := range event.TicketTypes {
		tt := &event.TicketTypes[i]
		tt.EventID = event.ID
		tt.Version = 1

		copied := *tt
		s.tickets[ticketKey{event.ID, tt.Name}] = &copied
	}

	return nil
}

func (s *Store) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return nil, nil
	}

	out := *event
	out.TicketTypes = s.ticketTypesLocked(id)
	return &out, nil
}

func (s *Store) ListEvents(ctx context.Context, query string, page, pageSize int) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []models.Event
	for _, event := range s.events {
		if query != "" {
			q := strings.ToLower(query)
			if !strings.Contains(strings.ToLower(event.Title), q) &&
				!strings.Contains(strings.ToLower(event.Category), q) {
				continue
			}
		}
		events = append(events, *event)
	}

	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		if offset >= len(events) {
			return nil, nil
		}
		end := offset + pageSize
		if end > len(events) {
			end = len(events)
		}
		events = events[offset:end]
	}

	return events, nil
}

func (s *Store) ListTicketTypes(ctx context.Context, eventID int64) ([]models.TicketType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ticketTypesLocked(eventID), nil
}

func (s *Store) GetTicketType(ctx context.Context, eventID int64, name string) (*models.TicketType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tt, ok := s.tickets[ticketKey{eventID, name}]
	if !ok {
		return nil, nil
	}

	out := *tt
	return &out, nil
}

func (s *Store) ticketTypesLocked(eventID int64) []models.TicketType {
	var ticketTypes []models.TicketType
	for key, tt := range s.tickets {
		if key.eventID == eventID {
			ticketTypes = append(ticketTypes, *tt)
		}
	}

	sort.Slice(ticketTypes, func(i, j int) bool { return ticketTypes[i].Price < ticketTypes[j].Price })
	return ticketTypes
}
