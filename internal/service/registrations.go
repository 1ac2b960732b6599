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

type RegistrationService struct {
	events    EventStore
	attendees AttendeeStore
	publisher Publisher
}

func NewRegistrationService(events EventStore, attendees AttendeeStore, publisher Publisher) *RegistrationService {
	return &RegistrationService{events: events, attendees: attendees, publisher: publisher}
}

// Register adds the user to the event's attendee list. The store performs
// the duplicate and capacity checks atomically with the count increment.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID int64, userName, userEmail string) (*models.Attendee, error) {
	attendee := &models.Attendee{
		EventID: eventID,
		UserID:  userID,
		Name:    userName,
		Email:   userEmail,
		Status:  models.AttendeeConfirmed,
	}

	if err := s.attendees.Register(ctx, attendee); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues("registered").Inc()

	logger.WithContext(ctx).Info("User registered for event",
		"event_id", eventID,
		"user_id", userID)

	event := models.RegistrationCreatedEvent{
		AttendeeID: attendee.ID,
		EventID:    eventID,
		UserID:     userID,
		Timestamp:  time.Now(),
	}
	if err := s.publisher.Publish(models.EventRegistrationCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish registration created event",
			"error", err,
			"event_id", eventID,
			"user_id", userID,
			"event_type", "registration.created")
	}

	return attendee, nil
}

func (s *RegistrationService) Unregister(ctx context.Context, eventID, userID int64) error {
	if err := s.attendees.Unregister(ctx, eventID, userID); err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("cancelled").Inc()

	logger.WithContext(ctx).Info("User unregistered from event",
		"event_id", eventID,
		"user_id", userID)

	event := models.RegistrationCancelledEvent{
		EventID:   eventID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(models.EventRegistrationCancelled, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish registration cancelled event",
			"error", err,
			"event_id", eventID,
			"user_id", userID,
			"event_type", "registration.cancelled")
	}

	return nil
}

// ListByEvent returns the attendee roster. The caller is responsible for
// checking the requester may see it.
func (s *RegistrationService) ListByEvent(ctx context.Context, eventID int64) ([]models.Attendee, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}

	return s.attendees.ListByEvent(ctx, eventID)
}

func (s *RegistrationService) ListByUser(ctx context.Context, userID int64) ([]models.Attendee, error) {
	return s.attendees.ListByUser(ctx, userID)
}
