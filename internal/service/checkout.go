package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"mela/internal/cart"
	apperrors "mela/internal/errors"
	"mela/internal/logger"
	"mela/internal/metrics"
	"mela/internal/models"
	"mela/internal/pricing"
)

// CheckoutService turns a cart into a paid order. The sequence is:
// validate buyer, re-price against live ticket data, reserve stock,
// charge, persist the order, commit the reservations, clear the cart.
// Any failure after reservation releases every token already taken, so a
// failed checkout never leaks stock.
type CheckoutService struct {
	ledger    *cart.Ledger
	events    EventStore
	inventory InventoryStore
	orders    OrderStore
	gateway   PaymentGateway
	publisher Publisher
}

func NewCheckoutService(ledger *cart.Ledger, events EventStore, inventory InventoryStore, orders OrderStore, gateway PaymentGateway, publisher Publisher) *CheckoutService {
	return &CheckoutService{
		ledger:    ledger,
		events:    events,
		inventory: inventory,
		orders:    orders,
		gateway:   gateway,
		publisher: publisher,
	}
}

// Preview prices the current cart without touching inventory.
func (s *CheckoutService) Preview(ctx context.Context, sessionID, promoCode string) (pricing.Breakdown, error) {
	items, err := s.ledger.Snapshot(ctx, sessionID)
	if err != nil {
		return pricing.Breakdown{}, fmt.Errorf("failed to load cart: %w", err)
	}
	return pricing.ComputeBreakdown(items, promoCode), nil
}

func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, userID int64, req *models.CheckoutRequest) (*models.Order, error) {
	if err := validateBuyer(req.Buyer); err != nil {
		return nil, err
	}

	items, err := s.ledger.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, apperrors.ErrCartEmpty
	}

	// Cart prices are display snapshots; the order is always priced off the
	// ticket type's current price.
	for i := range items {
		tt, err := s.events.GetTicketType(ctx, items[i].EventID, items[i].TicketType)
		if err != nil {
			return nil, fmt.Errorf("failed to price cart item %s: %w", items[i].Key, err)
		}
		if tt == nil {
			return nil, fmt.Errorf("cart item %s: %w", items[i].Key, apperrors.ErrNotFound)
		}
		items[i].Price = tt.Price
	}

	breakdown := pricing.ComputeBreakdown(items, req.PromoCode)

	// Reserving in key order keeps concurrent checkouts that share ticket
	// types from taking stock in opposite orders.
	sorted := make([]models.CartItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var tokens []string
	committed := false
	defer func() {
		if committed {
			return
		}
		for _, token := range tokens {
			if err := s.inventory.Release(context.WithoutCancel(ctx), token); err != nil {
				logger.WithContext(ctx).Error("Failed to release reservation during rollback",
					"error", err,
					"token", token)
			}
		}
	}()

	for _, item := range sorted {
		reservation, err := s.inventory.Reserve(ctx, item.EventID, item.TicketType, item.Quantity)
		if err != nil {
			metrics.CheckoutsTotal.WithLabelValues("out_of_stock").Inc()
			return nil, fmt.Errorf("cart item %s: %w", item.Key, err)
		}
		tokens = append(tokens, reservation.Token)
	}

	if err := s.gateway.Attempt(ctx, breakdown.Total, req.Method); err != nil {
		metrics.CheckoutsTotal.WithLabelValues("payment_declined").Inc()

		event := models.PaymentDeclinedEvent{
			UserID:    userID,
			Total:     breakdown.Total,
			Method:    req.Method,
			Timestamp: time.Now(),
		}
		if pubErr := s.publisher.Publish(models.EventCheckoutPaymentDeclined, event); pubErr != nil {
			logger.WithContext(ctx).Error("Failed to publish payment declined event",
				"error", pubErr,
				"user_id", userID,
				"event_type", "checkout.payment_declined")
		}

		return nil, fmt.Errorf("%w: %v", apperrors.ErrPaymentFailed, err)
	}

	order := &models.Order{
		ID:         "ORD-" + uuid.New().String(),
		UserID:     userID,
		BuyerName:  req.Buyer.Name,
		BuyerEmail: req.Buyer.Email,
		BuyerPhone: req.Buyer.Phone,
		PromoCode:  strings.ToUpper(req.PromoCode),
		Method:     req.Method,
		Status:     "confirmed",
		Subtotal:   breakdown.Subtotal,
		ServiceFee: breakdown.ServiceFee,
		Tax:        breakdown.Tax,
		Discount:   breakdown.Discount,
		Total:      breakdown.Total,
	}
	if pricing.DiscountRate(req.PromoCode) == 0 {
		order.PromoCode = ""
	}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			EventID:    item.EventID,
			TicketType: item.TicketType,
			EventTitle: item.EventTitle,
			UnitPrice:  item.Price,
			Quantity:   item.Quantity,
		})
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		metrics.CheckoutsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	committed = true
	for _, token := range tokens {
		if err := s.inventory.Commit(ctx, token); err != nil {
			logger.WithContext(ctx).Error("Failed to commit reservation",
				"error", err,
				"order_id", order.ID,
				"token", token)
		}
	}

	if err := s.ledger.Clear(ctx, sessionID); err != nil {
		logger.WithContext(ctx).Error("Failed to clear cart after checkout",
			"error", err,
			"order_id", order.ID,
			"session_id", sessionID)
	}

	metrics.CheckoutsTotal.WithLabelValues("confirmed").Inc()
	metrics.OrderTotalAmount.Observe(float64(order.Total))

	logger.WithContext(ctx).Info("Order created",
		"order_id", order.ID,
		"user_id", userID,
		"total", order.Total,
		"items", len(order.Items))

	event := models.OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    userID,
		Total:     order.Total,
		ItemCount: len(order.Items),
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(models.EventOrderCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish order created event",
			"error", err,
			"order_id", order.ID,
			"event_type", "order.created")
	}

	return order, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, apperrors.ErrNotFound
	}
	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

func validateBuyer(buyer models.BuyerInfo) error {
	if strings.TrimSpace(buyer.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrInvalidBuyer)
	}
	if !strings.Contains(buyer.Email, "@") || strings.TrimSpace(buyer.Email) == "" {
		return fmt.Errorf("%w: invalid email", apperrors.ErrInvalidBuyer)
	}

	digits := 0
	for _, r := range buyer.Phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 7 || digits > 15 {
		return fmt.Errorf("%w: invalid phone", apperrors.ErrInvalidBuyer)
	}

	return nil
}
