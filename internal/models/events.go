package models

import "time"

// NATS Event Types
const (
	EventOrderCreated            = "order.created"
	EventRegistrationCreated     = "registration.created"
	EventRegistrationCancelled   = "registration.cancelled"
	EventReservationExpired      = "reservation.expired"
	EventCheckoutPaymentDeclined = "checkout.payment_declined"
)

// OrderCreatedEvent represents a committed order
type OrderCreatedEvent struct {
	OrderID   string    `json:"order_id"`
	UserID    int64     `json:"user_id"`
	Total     int64     `json:"total"`
	ItemCount int       `json:"item_count"`
	Timestamp time.Time `json:"timestamp"`
}

// RegistrationCreatedEvent represents a confirmed direct registration
type RegistrationCreatedEvent struct {
	AttendeeID int64     `json:"attendee_id"`
	EventID    int64     `json:"event_id"`
	UserID     int64     `json:"user_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// RegistrationCancelledEvent represents an unregistration
type RegistrationCancelledEvent struct {
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ReservationExpiredEvent represents a stale reservation swept back to stock
type ReservationExpiredEvent struct {
	Token      string    `json:"token"`
	EventID    int64     `json:"event_id"`
	TicketType string    `json:"ticket_type"`
	Quantity   int       `json:"quantity"`
	Timestamp  time.Time `json:"timestamp"`
}

// PaymentDeclinedEvent represents a checkout aborted by the payment step
type PaymentDeclinedEvent struct {
	UserID    int64     `json:"user_id"`
	Total     int64     `json:"total"`
	Method    string    `json:"method"`
	Timestamp time.Time `json:"timestamp"`
}
