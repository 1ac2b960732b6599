package service

import (
	"context"
	"fmt"

	apperrors "mela/internal/errors"
	"mela/internal/logger"
	"mela/internal/models"
)

type EventService struct {
	events   EventStore
	searcher EventSearcher
}

func NewEventService(events EventStore, searcher EventSearcher) *EventService {
	return &EventService{events: events, searcher: searcher}
}

func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest, organizerID int64, organizerName string) (*models.Event, error) {
	event := &models.Event{
		Title:       req.Title,
		Category:    req.Category,
		Date:        req.Date,
		Time:        req.Time,
		Venue:       req.Venue,
		Organizer:   organizerName,
		OrganizerID: organizerID,
		Capacity:    req.Capacity,
		Status:      "upcoming",
	}
	if req.Description != "" {
		event.Description = &req.Description
	}

	for _, tt := range req.TicketTypes {
		event.TicketTypes = append(event.TicketTypes, models.TicketType{
			Name:      tt.Name,
			Price:     tt.Price,
			Remaining: tt.Availability,
			Perks:     tt.Perks,
		})
	}

	if err := s.events.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	logger.WithContext(ctx).Info("Event created",
		"event_id", event.ID,
		"title", event.Title,
		"capacity", event.Capacity)

	if s.searcher != nil {
		if err := s.searcher.IndexEvent(ctx, event); err != nil {
			logger.WithContext(ctx).Error("Failed to index event",
				"error", err,
				"event_id", event.ID)
		}
	}

	return event, nil
}

func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}
	return event, nil
}

// List returns events, using the search index for queries when one is
// configured and falling back to the store on miss or error.
func (s *EventService) List(ctx context.Context, query string, page, pageSize int) ([]models.Event, error) {
	if query != "" && s.searcher != nil {
		events, err := s.searcher.Search(ctx, query, page, pageSize)
		if err == nil {
			return events, nil
		}
		logger.WithContext(ctx).Error("Event search failed, falling back to store",
			"error", err,
			"query", query)
	}

	events, err := s.events.ListEvents(ctx, query, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *EventService) ListTicketTypes(ctx context.Context, eventID int64) ([]models.TicketType, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}

	return event.TicketTypes, nil
}
