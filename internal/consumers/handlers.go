package consumers

import (
	"encoding/json"

	"github.com/nats-io/stan.go"

	"mela/internal/logger"
	"mela/internal/models"
)

// Handlers process the published domain events. Today they log and ack; the
// hooks are where confirmation emails and analytics exports plug in.
type Handlers struct{}

func NewHandlers() *Handlers {
	return &Handlers{}
}

func (h *Handlers) HandleOrderCreated(m *stan.Msg) {
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal order created event", "error", err)
		return
	}

	logger.Get().Info("Processing order created event",
		"order_id", event.OrderID,
		"user_id", event.UserID,
		"total", event.Total,
		"items", event.ItemCount)

	m.Ack()
}

func (h *Handlers) HandleRegistrationCreated(m *stan.Msg) {
	var event models.RegistrationCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal registration created event", "error", err)
		return
	}

	logger.Get().Info("Processing registration created event",
		"attendee_id", event.AttendeeID,
		"event_id", event.EventID,
		"user_id", event.UserID)

	m.Ack()
}

func (h *Handlers) HandleRegistrationCancelled(m *stan.Msg) {
	var event models.RegistrationCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal registration cancelled event", "error", err)
		return
	}

	logger.Get().Info("Processing registration cancelled event",
		"event_id", event.EventID,
		"user_id", event.UserID)

	m.Ack()
}

func (h *Handlers) HandlePaymentDeclined(m *stan.Msg) {
	var event models.PaymentDeclinedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal payment declined event", "error", err)
		return
	}

	logger.Get().Warn("Processing payment declined event",
		"user_id", event.UserID,
		"total", event.Total,
		"method", event.Method)

	m.Ack()
}

func (h *Handlers) HandleReservationExpired(m *stan.Msg) {
	var event models.ReservationExpiredEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal reservation expired event", "error", err)
		return
	}

	logger.Get().Info("Processing reservation expired event",
		"token", event.Token,
		"event_id", event.EventID,
		"ticket_type", event.TicketType,
		"quantity", event.Quantity)

	m.Ack()
}
