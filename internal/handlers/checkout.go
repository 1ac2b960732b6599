package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mela/internal/models"
)

// Checkout handlers

// Checkout - POST /api/checkout
func (h *Handlers) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.services.Checkout.Checkout(c.Request.Context(), h.sessionID(c), h.userID(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder - GET /api/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.services.Checkout.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Buyers see their own orders; staff see everything.
	if order.UserID != h.userID(c) {
		role := c.GetString("user_role")
		if role != "admin" && role != "organizer" {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders - GET /api/orders
func (h *Handlers) ListOrders(c *gin.Context) {
	orders, err := h.services.Checkout.ListOrders(c.Request.Context(), h.userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}
