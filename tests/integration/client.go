package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	"mela/internal/models"
)

// TestClient drives the HTTP API as one identified user with one cart
// session.
type TestClient struct {
	BaseURL    string
	UserID     int64
	Role       string
	SessionID  string
	HTTPClient *http.Client
}

func NewTestClient(baseURL string, userID int64, role string) *TestClient {
	return &TestClient{
		BaseURL:   baseURL,
		UserID:    userID,
		Role:      role,
		SessionID: "itest-" + strconv.FormatInt(userID, 10),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", strconv.FormatInt(c.UserID, 10))
	req.Header.Set("X-User-Role", c.Role)
	req.Header.Set("X-Session-ID", c.SessionID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

func decode[T any](t *testing.T, resp *http.Response, wantStatus int) T {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d: %s", wantStatus, resp.StatusCode, raw)
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return out
}

func (c *TestClient) ListEvents(t *testing.T) models.ListEventsResponse {
	resp := c.makeRequest(t, "GET", "/api/events", nil)
	return decode[models.ListEventsResponse](t, resp, http.StatusOK)
}

func (c *TestClient) CreateEvent(t *testing.T, req models.CreateEventRequest) models.CreateEventResponse {
	resp := c.makeRequest(t, "POST", "/api/events", req)
	return decode[models.CreateEventResponse](t, resp, http.StatusCreated)
}

func (c *TestClient) ListTicketTypes(t *testing.T, eventID int64) models.ListTicketTypesResponse {
	resp := c.makeRequest(t, "GET", "/api/events/"+strconv.FormatInt(eventID, 10)+"/tickets", nil)
	return decode[models.ListTicketTypesResponse](t, resp, http.StatusOK)
}

func (c *TestClient) AddCartItem(t *testing.T, req models.AddCartItemRequest) {
	resp := c.makeRequest(t, "POST", "/api/cart/items", req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
}

func (c *TestClient) GetCart(t *testing.T) models.CartResponse {
	resp := c.makeRequest(t, "GET", "/api/cart", nil)
	return decode[models.CartResponse](t, resp, http.StatusOK)
}

func (c *TestClient) Preview(t *testing.T, promoCode string) models.BreakdownResponse {
	resp := c.makeRequest(t, "POST", "/api/cart/preview", models.PreviewBreakdownRequest{PromoCode: promoCode})
	return decode[models.BreakdownResponse](t, resp, http.StatusOK)
}

func (c *TestClient) Checkout(t *testing.T, req models.CheckoutRequest) models.Order {
	resp := c.makeRequest(t, "POST", "/api/checkout", req)
	return decode[models.Order](t, resp, http.StatusCreated)
}

func (c *TestClient) ListOrders(t *testing.T) []models.Order {
	resp := c.makeRequest(t, "GET", "/api/orders", nil)
	return decode[[]models.Order](t, resp, http.StatusOK)
}

func (c *TestClient) Register(t *testing.T, eventID int64, name, email string) models.Attendee {
	resp := c.makeRequest(t, "POST", "/api/registrations", models.RegisterRequest{
		EventID: eventID, Name: name, Email: email,
	})
	return decode[models.Attendee](t, resp, http.StatusCreated)
}
