package models

// CreateEventRequest - payload for creating an event with its ticket tiers
type CreateEventRequest struct {
	Title       string                    `json:"title" binding:"required"`
	Description string                    `json:"description"`
	Category    string                    `json:"category"`
	Date        string                    `json:"date" binding:"required"`
	Time        string                    `json:"time"`
	Venue       string                    `json:"venue"`
	Capacity    int                       `json:"capacity" binding:"required,min=1"`
	TicketTypes []CreateTicketTypeRequest `json:"ticket_types" binding:"required,min=1,dive"`
}

// CreateTicketTypeRequest - one admission tier in a create-event payload
type CreateTicketTypeRequest struct {
	Name         string   `json:"name" binding:"required"`
	Price        int64    `json:"price" binding:"min=0"`
	Availability int      `json:"availability" binding:"min=0"`
	Perks        []string `json:"perks"`
}

// CreateEventResponse - response when an event is created
type CreateEventResponse struct {
	ID int64 `json:"id"`
}

// AddCartItemRequest - payload for adding a ticket selection to the cart
type AddCartItemRequest struct {
	EventID    int64  `json:"event_id" binding:"required"`
	TicketType string `json:"ticket_type" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
}

// UpdateCartQuantityRequest - payload for changing a cart line's quantity
type UpdateCartQuantityRequest struct {
	Key      string `json:"key" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// RemoveCartItemRequest - payload for removing a cart line
type RemoveCartItemRequest struct {
	Key string `json:"key" binding:"required"`
}

// CartResponse - current cart contents with the computed breakdown
type CartResponse struct {
	Items     []CartItem        `json:"items"`
	Breakdown BreakdownResponse `json:"breakdown"`
}

// PreviewBreakdownRequest - payload for pricing the current cart
type PreviewBreakdownRequest struct {
	PromoCode string `json:"promo_code"`
}

// BreakdownResponse - the computed price breakdown for a cart
type BreakdownResponse struct {
	Subtotal   int64 `json:"subtotal"`
	ServiceFee int64 `json:"service_fee"`
	Tax        int64 `json:"tax"`
	Discount   int64 `json:"discount"`
	Total      int64 `json:"total"`
}

// BuyerInfo - contact details collected at checkout
type BuyerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CheckoutRequest - payload for committing the cart to an order
type CheckoutRequest struct {
	Buyer     BuyerInfo `json:"buyer" binding:"required"`
	PromoCode string    `json:"promo_code"`
	Method    string    `json:"payment_method" binding:"required"`
}

// RegisterRequest - payload for direct (cart-free) event registration
type RegisterRequest struct {
	EventID int64  `json:"event_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
}

// UnregisterRequest - payload for cancelling a registration
type UnregisterRequest struct {
	EventID int64 `json:"event_id" binding:"required"`
}

// ListEventsResponseItem - one event in the listing
type ListEventsResponseItem struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	Date            string `json:"date"`
	Venue           string `json:"venue"`
	Capacity        int    `json:"capacity"`
	RegisteredCount int    `json:"registered_count"`
	Status          string `json:"status"`
}

// ListEventsResponse - list of events
type ListEventsResponse []ListEventsResponseItem

// TicketTypeResponse - one admission tier with live availability
type TicketTypeResponse struct {
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	Availability int      `json:"availability"`
	Perks        []string `json:"perks,omitempty"`
}

// ListTicketTypesResponse - ticket tiers for one event
type ListTicketTypesResponse []TicketTypeResponse
