package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "mela/internal/errors"
	"mela/internal/models"
	"mela/internal/pricing"
)

// Cart handlers

// GetCart - GET /api/cart
func (h *Handlers) GetCart(c *gin.Context) {
	items, err := h.services.Cart.Snapshot(c.Request.Context(), h.sessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	promoCode := c.Query("promo_code")
	breakdown := pricing.ComputeBreakdown(items, promoCode)

	if items == nil {
		items = []models.CartItem{}
	}
	c.JSON(http.StatusOK, models.CartResponse{
		Items:     items,
		Breakdown: toBreakdownResponse(breakdown),
	})
}

// AddCartItem - POST /api/cart/items
func (h *Handlers) AddCartItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	// Snapshot the event details into the line so the cart renders without
	// extra lookups.
	event, err := h.services.Events.Get(ctx, req.EventID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var price int64
	found := false
	for _, tt := range event.TicketTypes {
		if tt.Name == req.TicketType {
			price = tt.Price
			found = true
			break
		}
	}
	if !found {
		h.respondError(c, apperrors.ErrNotFound)
		return
	}

	item := models.CartItem{
		EventID:    req.EventID,
		TicketType: req.TicketType,
		EventTitle: event.Title,
		EventDate:  event.Date,
		EventTime:  event.Time,
		Venue:      event.Venue,
		Price:      price,
		Quantity:   req.Quantity,
	}

	if err := h.services.Cart.AddItem(ctx, h.sessionID(c), item); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// UpdateCartQuantity - PUT /api/cart/items
func (h *Handlers) UpdateCartQuantity(c *gin.Context) {
	var req models.UpdateCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Cart.UpdateQuantity(c.Request.Context(), h.sessionID(c), req.Key, req.Quantity); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// RemoveCartItem - DELETE /api/cart/items
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	var req models.RemoveCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Cart.RemoveItem(c.Request.Context(), h.sessionID(c), req.Key); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// ClearCart - DELETE /api/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	if err := h.services.Cart.Clear(c.Request.Context(), h.sessionID(c)); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// PreviewBreakdown - POST /api/cart/preview
func (h *Handlers) PreviewBreakdown(c *gin.Context) {
	var req models.PreviewBreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	breakdown, err := h.services.Checkout.Preview(c.Request.Context(), h.sessionID(c), req.PromoCode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBreakdownResponse(breakdown))
}

func toBreakdownResponse(b pricing.Breakdown) models.BreakdownResponse {
	return models.BreakdownResponse{
		Subtotal:   b.Subtotal,
		ServiceFee: b.ServiceFee,
		Tax:        b.Tax,
		Discount:   b.Discount,
		Total:      b.Total,
	}
}
