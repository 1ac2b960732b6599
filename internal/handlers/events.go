package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mela/internal/models"
)

// Events handlers

// CreateEvent - POST /api/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := h.userID(c)
	organizerName := c.GetHeader("X-User-Name")
	if organizerName == "" {
		organizerName = "organizer-" + strconv.FormatInt(userID, 10)
	}

	event, err := h.services.Events.Create(c.Request.Context(), &req, userID, organizerName)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreateEventResponse{ID: event.ID})
}

// ListEvents - GET /api/events
func (h *Handlers) ListEvents(c *gin.Context) {
	query := c.Query("query")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 100"})
		return
	}

	events, err := h.services.Events.List(c.Request.Context(), query, page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make(models.ListEventsResponse, 0, len(events))
	for _, event := range events {
		response = append(response, models.ListEventsResponseItem{
			ID:              event.ID,
			Title:           event.Title,
			Category:        event.Category,
			Date:            event.Date,
			Venue:           event.Venue,
			Capacity:        event.Capacity,
			RegisteredCount: event.RegisteredCount,
			Status:          event.Status,
		})
	}

	c.JSON(http.StatusOK, response)
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.services.Events.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// ListTicketTypes - GET /api/events/:id/tickets
func (h *Handlers) ListTicketTypes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ticketTypes, err := h.services.Events.ListTicketTypes(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make(models.ListTicketTypesResponse, 0, len(ticketTypes))
	for _, tt := range ticketTypes {
		response = append(response, models.TicketTypeResponse{
			Name:         tt.Name,
			Price:        tt.Price,
			Availability: tt.Remaining,
			Perks:        tt.Perks,
		})
	}

	c.JSON(http.StatusOK, response)
}
