package errors

import "errors"

// Expected, recoverable outcomes. Services return these (possibly wrapped)
// and handlers translate them to HTTP statuses; anything else is treated as
// a storage or programming fault.
var (
	ErrNotFound          = errors.New("not found")
	ErrOutOfStock        = errors.New("not enough tickets remaining")
	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrInvalidBuyer      = errors.New("buyer contact details are missing or malformed")
	ErrInvalidQuantity   = errors.New("quantity must be between 1 and 999")
	ErrPaymentFailed     = errors.New("payment was declined")
	ErrCartEmpty         = errors.New("cart is empty")
)

var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")
