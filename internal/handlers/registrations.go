package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mela/internal/models"
)

// Registrations handlers

// Register - POST /api/registrations
func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attendee, err := h.services.Registrations.Register(c.Request.Context(), req.EventID, h.userID(c), req.Name, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attendee)
}

// Unregister - DELETE /api/registrations
func (h *Handlers) Unregister(c *gin.Context) {
	var req models.UnregisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Registrations.Unregister(c.Request.Context(), req.EventID, h.userID(c)); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// ListMyRegistrations - GET /api/registrations
func (h *Handlers) ListMyRegistrations(c *gin.Context) {
	attendees, err := h.services.Registrations.ListByUser(c.Request.Context(), h.userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if attendees == nil {
		attendees = []models.Attendee{}
	}
	c.JSON(http.StatusOK, attendees)
}

// ListAttendees - GET /api/events/:id/attendees
// Roster access is limited to organizers and admins by the route setup.
func (h *Handlers) ListAttendees(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	attendees, err := h.services.Registrations.ListByEvent(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if attendees == nil {
		attendees = []models.Attendee{}
	}
	c.JSON(http.StatusOK, attendees)
}
