package service

import (
	"context"
	"time"

	"mela/internal/cart"
	"mela/internal/models"
)

// EventStore provides read/write access to events and their ticket tiers.
// Get methods return (nil, nil) when the row does not exist.
type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListEvents(ctx context.Context, query string, page, pageSize int) ([]models.Event, error)
	ListTicketTypes(ctx context.Context, eventID int64) ([]models.TicketType, error)
	GetTicketType(ctx context.Context, eventID int64, name string) (*models.TicketType, error)
}

// InventoryStore owns the remaining-stock counters. Reserve is the only way
// stock is decremented and performs its check-and-decrement atomically;
// Release restores exactly the reserved quantity and is idempotent.
type InventoryStore interface {
	Reserve(ctx context.Context, eventID int64, ticketType string, quantity int) (*models.Reservation, error)
	Release(ctx context.Context, token string) error
	Commit(ctx context.Context, token string) error
	Availability(ctx context.Context, eventID int64, ticketType string) (int, error)
	ExpireBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error)
}

// AttendeeStore owns registrations. Register inserts the attendee row and
// increments the event's registered count as one atomic unit.
type AttendeeStore interface {
	Register(ctx context.Context, attendee *models.Attendee) error
	Unregister(ctx context.Context, eventID, userID int64) error
	ListByEvent(ctx context.Context, eventID int64) ([]models.Attendee, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Attendee, error)
}

// OrderStore persists committed orders; rows are immutable once written.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error)
}

// PaymentGateway is the black-box payment collaborator: a nil error means
// the charge went through.
type PaymentGateway interface {
	Attempt(ctx context.Context, amount int64, method string) error
}

// Publisher is satisfied by messaging.NATSClient.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// EventSearcher is an optional full-text index over events. ListEvents
// falls back to the store when it is nil or errors; indexing is best effort.
type EventSearcher interface {
	Search(ctx context.Context, query string, page, pageSize int) ([]models.Event, error)
	IndexEvent(ctx context.Context, event *models.Event) error
}

// Stores groups the storage backends a driver must provide.
type Stores struct {
	Events    EventStore
	Inventory InventoryStore
	Attendees AttendeeStore
	Orders    OrderStore
}

type Services struct {
	Events        *EventService
	Inventory     *InventoryService
	Registrations *RegistrationService
	Checkout      *CheckoutService
	Cart          *cart.Ledger
}

func NewServices(stores Stores, ledger *cart.Ledger, gateway PaymentGateway, publisher Publisher, searcher EventSearcher) *Services {
	return &Services{
		Events:        NewEventService(stores.Events, searcher),
		Inventory:     NewInventoryService(stores.Inventory, publisher),
		Registrations: NewRegistrationService(stores.Events, stores.Attendees, publisher),
		Checkout:      NewCheckoutService(ledger, stores.Events, stores.Inventory, stores.Orders, gateway, publisher),
		Cart:          ledger,
	}
}
