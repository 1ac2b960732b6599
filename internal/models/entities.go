package models

import (
	"fmt"
	"time"
)

// Event represents a listed event with its ticket tiers.
type Event struct {
	ID              int64        `json:"id" db:"id"`
	Title           string       `json:"title" db:"title"`
	Description     *string      `json:"description" db:"description"`
	Category        string       `json:"category" db:"category"`
	Date            string       `json:"date" db:"event_date"`
	Time            string       `json:"time" db:"event_time"`
	Venue           string       `json:"venue" db:"venue"`
	Organizer       string       `json:"organizer" db:"organizer"`
	OrganizerID     int64        `json:"organizer_id" db:"organizer_id"`
	Capacity        int          `json:"capacity" db:"capacity"`
	RegisteredCount int          `json:"registered_count" db:"registered_count"`
	Status          string       `json:"status" db:"status"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	TicketTypes     []TicketType `json:"ticket_types,omitempty"` // Not from events row, filled separately
}

// TicketType is a named admission tier with its own price and stock.
// Remaining is mutated only through atomic reserve/release; Version is
// bumped on every write for optimistic readers.
type TicketType struct {
	EventID   int64    `json:"event_id" db:"event_id"`
	Name      string   `json:"name" db:"name"`
	Price     int64    `json:"price" db:"price"`
	Remaining int      `json:"remaining" db:"remaining"`
	Version   int64    `json:"-" db:"version"`
	Perks     []string `json:"perks,omitempty" db:"perks"`
}

// Reservation is a not-yet-committed decrement of ticket stock. The token
// is the opaque handle checkout uses to release stock on rollback.
type Reservation struct {
	Token      string    `json:"token" db:"token"`
	EventID    int64     `json:"event_id" db:"event_id"`
	TicketType string    `json:"ticket_type" db:"ticket_type"`
	Quantity   int       `json:"quantity" db:"quantity"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Reservation statuses.
const (
	ReservationActive    = "ACTIVE"
	ReservationCommitted = "COMMITTED"
	ReservationReleased  = "RELEASED"
)

// CartItem is one line in a buyer's cart. The display fields are a snapshot
// taken at add time; checkout re-fetches the live price before committing.
type CartItem struct {
	Key        string `json:"key"`
	EventID    int64  `json:"event_id"`
	TicketType string `json:"ticket_type"`
	EventTitle string `json:"event_title"`
	EventDate  string `json:"event_date"`
	EventTime  string `json:"event_time"`
	Venue      string `json:"venue"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
}

// ItemKey builds the cart composite key for an (event, ticket type) pair.
func ItemKey(eventID int64, ticketType string) string {
	return fmt.Sprintf("%d_%s", eventID, ticketType)
}

// Order is created only by a fully successful checkout and is immutable
// thereafter. The stored breakdown always equals the pricing engine applied
// to the stored items.
type Order struct {
	ID         string      `json:"id" db:"id"`
	UserID     int64       `json:"user_id" db:"user_id"`
	BuyerName  string      `json:"buyer_name" db:"buyer_name"`
	BuyerEmail string      `json:"buyer_email" db:"buyer_email"`
	BuyerPhone string      `json:"buyer_phone" db:"buyer_phone"`
	PromoCode  string      `json:"promo_code,omitempty" db:"promo_code"`
	Method     string      `json:"payment_method" db:"payment_method"`
	Status     string      `json:"status" db:"status"`
	Subtotal   int64       `json:"subtotal" db:"subtotal"`
	ServiceFee int64       `json:"service_fee" db:"service_fee"`
	Tax        int64       `json:"tax" db:"tax"`
	Discount   int64       `json:"discount" db:"discount"`
	Total      int64       `json:"total" db:"total"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	Items      []OrderItem `json:"items"`
}

// OrderItem is a committed line item with its price at commit time.
type OrderItem struct {
	OrderID    string `json:"-" db:"order_id"`
	EventID    int64  `json:"event_id" db:"event_id"`
	TicketType string `json:"ticket_type" db:"ticket_type"`
	EventTitle string `json:"event_title" db:"event_title"`
	UnitPrice  int64  `json:"unit_price" db:"unit_price"`
	Quantity   int    `json:"quantity" db:"quantity"`
}

// Attendee is a confirmed registration. (EventID, UserID) is unique.
type Attendee struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	EventID        int64     `json:"event_id" db:"event_id"`
	EventTitle     string    `json:"event_title" db:"event_title"`
	Status         string    `json:"status" db:"status"`
	RegisteredDate time.Time `json:"registered_date" db:"registered_date"`
}

// Attendee statuses.
const (
	AttendeeConfirmed = "confirmed"
	AttendeePending   = "pending"
)
