package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mela/internal/cart"
	"mela/internal/memstore"
	"mela/internal/middleware"
	"mela/internal/models"
	"mela/internal/service"
)

type approveAllGateway struct{}

func (approveAllGateway) Attempt(ctx context.Context, amount int64, method string) error {
	return nil
}

type dropPublisher struct{}

func (dropPublisher) Publish(subject string, data interface{}) error { return nil }

func setupRouter(t *testing.T) (*gin.Engine, *memstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	ledger := cart.NewLedger(cart.NewMemoryStore())
	stores := service.Stores{Events: store, Inventory: store, Attendees: store, Orders: store}
	services := service.NewServices(stores, ledger, approveAllGateway{}, dropPublisher{}, nil)

	h := NewHandlers(services)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.Identity())
	{
		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.POST("", middleware.RequireRole(middleware.RoleOrganizer), h.CreateEvent)
			events.GET("/:id", h.GetEvent)
			events.GET("/:id/tickets", h.ListTicketTypes)
			events.GET("/:id/attendees", middleware.RequireRole(middleware.RoleOrganizer), h.ListAttendees)
		}

		cartGroup := api.Group("/cart")
		{
			cartGroup.GET("", h.GetCart)
			cartGroup.DELETE("", h.ClearCart)
			cartGroup.POST("/items", h.AddCartItem)
			cartGroup.PUT("/items", h.UpdateCartQuantity)
			cartGroup.DELETE("/items", h.RemoveCartItem)
			cartGroup.POST("/preview", h.PreviewBreakdown)
		}

		api.POST("/checkout", h.Checkout)

		orders := api.Group("/orders")
		{
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
		}

		registrations := api.Group("/registrations")
		{
			registrations.POST("", h.Register)
			registrations.DELETE("", h.Unregister)
			registrations.GET("", h.ListMyRegistrations)
		}
	}
	r.GET("/health", h.HealthCheck)

	return r, store
}

func doJSON(r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func asAttendee() map[string]string {
	return map[string]string{"X-User-ID": "7", "X-User-Role": "attendee"}
}

func asOrganizer() map[string]string {
	return map[string]string{"X-User-ID": "1", "X-User-Role": "organizer"}
}

func createEvent(t *testing.T, r *gin.Engine) int64 {
	t.Helper()

	w := doJSON(r, "POST", "/api/events", models.CreateEventRequest{
		Title:    "Kathmandu Music Festival",
		Category: "music",
		Date:     "2026-10-15",
		Time:     "18:00",
		Venue:    "Dasharath Stadium",
		Capacity: 100,
		TicketTypes: []models.CreateTicketTypeRequest{
			{Name: "Normal", Price: 500, Availability: 50},
			{Name: "VIP", Price: 1500, Availability: 10, Perks: []string{"Front zone"}},
		},
	}, asOrganizer())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.CreateEventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func TestHealthCheck(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, "GET", "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIdentityRequired(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, "GET", "/api/events", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateEventRequiresOrganizer(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, "POST", "/api/events", models.CreateEventRequest{
		Title:    "Unauthorized",
		Date:     "2026-01-01",
		Capacity: 10,
		TicketTypes: []models.CreateTicketTypeRequest{
			{Name: "Normal", Price: 100, Availability: 10},
		},
	}, asAttendee())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateAndGetEvent(t *testing.T) {
	r, _ := setupRouter(t)
	eventID := createEvent(t, r)

	w := doJSON(r, "GET", "/api/events/1", nil, asAttendee())
	require.Equal(t, http.StatusOK, w.Code)

	var event models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
	assert.Equal(t, eventID, event.ID)
	assert.Equal(t, "Kathmandu Music Festival", event.Title)
	assert.Len(t, event.TicketTypes, 2)

	w = doJSON(r, "GET", "/api/events/999", nil, asAttendee())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTicketTypes(t *testing.T) {
	r, _ := setupRouter(t)
	createEvent(t, r)

	w := doJSON(r, "GET", "/api/events/1/tickets", nil, asAttendee())
	require.Equal(t, http.StatusOK, w.Code)

	var tiers models.ListTicketTypesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tiers))
	require.Len(t, tiers, 2)
	assert.Equal(t, "Normal", tiers[0].Name)
	assert.Equal(t, 50, tiers[0].Availability)
}

func TestCartFlow(t *testing.T) {
	r, _ := setupRouter(t)
	createEvent(t, r)

	headers := asAttendee()
	headers["X-Session-ID"] = "sess-cart-flow"

	w := doJSON(r, "POST", "/api/cart/items", models.AddCartItemRequest{
		EventID: 1, TicketType: "Normal", Quantity: 2,
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Same key merges.
	w = doJSON(r, "POST", "/api/cart/items", models.AddCartItemRequest{
		EventID: 1, TicketType: "Normal", Quantity: 1,
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "GET", "/api/cart", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var cartResp models.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartResp))
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, 3, cartResp.Items[0].Quantity)
	assert.Equal(t, "1_Normal", cartResp.Items[0].Key)
	assert.Equal(t, int64(1500), cartResp.Breakdown.Subtotal)

	w = doJSON(r, "PUT", "/api/cart/items", models.UpdateCartQuantityRequest{
		Key: "1_Normal", Quantity: 5,
	}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "DELETE", "/api/cart/items", models.RemoveCartItemRequest{Key: "1_Normal"}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/api/cart", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartResp))
	assert.Empty(t, cartResp.Items)
}

func TestAddCartItemUnknownTier(t *testing.T) {
	r, _ := setupRouter(t)
	createEvent(t, r)

	w := doJSON(r, "POST", "/api/cart/items", models.AddCartItemRequest{
		EventID: 1, TicketType: "Platinum", Quantity: 1,
	}, asAttendee())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewBreakdown(t *testing.T) {
	r, _ := setupRouter(t)
	createEvent(t, r)

	headers := asAttendee()
	headers["X-Session-ID"] = "sess-preview"

	w := doJSON(r, "POST", "/api/cart/items", models.AddCartItemRequest{
		EventID: 1, TicketType: "Normal", Quantity: 2,
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/api/cart/preview", models.PreviewBreakdownRequest{PromoCode: "SAVE10"}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var breakdown models.BreakdownResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &breakdown))
	assert.Equal(t, int64(1000), breakdown.Subtotal)
	assert.Equal(t, int64(50), breakdown.ServiceFee)
	assert.Equal(t, int64(137), breakdown.Tax)
	assert.Equal(t, int64(100), breakdown.Discount)
	assert.Equal(t, int64(1087), breakdown.Total)
}

func TestCheckoutFlow(t *testing.T) {
	r, _ := setupRouter(t)
	createEvent(t, r)

	headers := asAttendee()
	headers["X-Session-ID"] = "sess-checkout"

	w := doJSON(r, "POST", "/api/cart/items", models.AddCartItemRequest{
		EventID: 1, TicketType: "VIP", Quantity: 2,
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/api/checkout", models.CheckoutRequest{
		Buyer:  models.BuyerInfo{Name: "Sita Sharma", Email: "sita@example.com", Phone: "9841000000"},
		Method: "esewa",
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Contains(t, order.ID, "ORD-")
	assert.Equal(t, int64(3000), order.Subtotal)

	// Stock went down.
	w = doJSON(r, "GET", "/api/events/1/tickets", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	var tiers models.ListTicketTypesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tiers))
	for _, tier := range tiers {
		if tier.Name == "VIP" {
			assert.Equal(t, 8, tier.Availability)
		}
	}

	// The order shows up in the buyer's history.
	w = doJSON(r, "GET", "/api/orders", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	// Another user cannot read it.
	w = doJSON(r, "GET", "/api/orders/"+order.ID, nil, map[string]string{"X-User-ID": "99", "X-User-Role": "attendee"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutEmptyCart(t *testing.T) {
	r, _ := setupRouter(t)
	createEvent(t, r)

	w := doJSON(r, "POST", "/api/checkout", models.CheckoutRequest{
		Buyer:  models.BuyerInfo{Name: "Sita", Email: "sita@example.com", Phone: "9841000000"},
		Method: "esewa",
	}, asAttendee())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	r, _ := setupRouter(t)
	createEvent(t, r)

	headers := asAttendee()
	headers["X-Session-ID"] = "sess-oversell"

	w := doJSON(r, "POST", "/api/cart/items", models.AddCartItemRequest{
		EventID: 1, TicketType: "VIP", Quantity: 11,
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/api/checkout", models.CheckoutRequest{
		Buyer:  models.BuyerInfo{Name: "Sita", Email: "sita@example.com", Phone: "9841000000"},
		Method: "esewa",
	}, headers)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegistrationFlow(t *testing.T) {
	r, _ := setupRouter(t)
	createEvent(t, r)

	headers := asAttendee()

	w := doJSON(r, "POST", "/api/registrations", models.RegisterRequest{
		EventID: 1, Name: "Sita Sharma", Email: "sita@example.com",
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Duplicate registration conflicts.
	w = doJSON(r, "POST", "/api/registrations", models.RegisterRequest{
		EventID: 1, Name: "Sita Sharma", Email: "sita@example.com",
	}, headers)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, "GET", "/api/registrations", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Attendee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	// Roster is organizer-only.
	w = doJSON(r, "GET", "/api/events/1/attendees", nil, headers)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "GET", "/api/events/1/attendees", nil, asOrganizer())
	require.Equal(t, http.StatusOK, w.Code)
	var roster []models.Attendee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roster))
	assert.Len(t, roster, 1)

	w = doJSON(r, "DELETE", "/api/registrations", models.UnregisterRequest{EventID: 1}, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "DELETE", "/api/registrations", models.UnregisterRequest{EventID: 1}, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
