// Black-box API tests against a running server. Start the stack (API plus
// its backing services, or STORE_DRIVER=memory) and run with
// INTEGRATION_BASE_URL set; the suite skips otherwise.
package integration

import (
	"fmt"
	"os"
	"testing"
	"time"

	"mela/internal/models"
)

func baseURL(t *testing.T) string {
	t.Helper()

	url := os.Getenv("INTEGRATION_BASE_URL")
	if url == "" {
		t.Skip("INTEGRATION_BASE_URL not set")
	}
	return url
}

func seedEvent(t *testing.T, organizer *TestClient) int64 {
	title := fmt.Sprintf("Integration Event %d", time.Now().UnixNano())
	created := organizer.CreateEvent(t, models.CreateEventRequest{
		Title:    title,
		Category: "music",
		Date:     "2027-01-15",
		Time:     "18:00",
		Venue:    "Test Hall",
		Capacity: 50,
		TicketTypes: []models.CreateTicketTypeRequest{
			{Name: "Normal", Price: 500, Availability: 30},
			{Name: "VIP", Price: 1500, Availability: 5},
		},
	})
	return created.ID
}

func TestEventLifecycle(t *testing.T) {
	url := baseURL(t)
	organizer := NewTestClient(url, 1, "organizer")

	eventID := seedEvent(t, organizer)

	events := organizer.ListEvents(t)
	found := false
	for _, event := range events {
		if event.ID == eventID {
			found = true
		}
	}
	if !found {
		t.Fatalf("Created event %d not in listing", eventID)
	}

	tiers := organizer.ListTicketTypes(t, eventID)
	if len(tiers) != 2 {
		t.Fatalf("Expected 2 ticket tiers, got %d", len(tiers))
	}
}

func TestCartAndCheckout(t *testing.T) {
	url := baseURL(t)
	organizer := NewTestClient(url, 1, "organizer")
	buyer := NewTestClient(url, time.Now().UnixNano()%1_000_000, "attendee")

	eventID := seedEvent(t, organizer)

	buyer.AddCartItem(t, models.AddCartItemRequest{EventID: eventID, TicketType: "Normal", Quantity: 2})
	buyer.AddCartItem(t, models.AddCartItemRequest{EventID: eventID, TicketType: "Normal", Quantity: 1})

	cart := buyer.GetCart(t)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("Expected one merged line with quantity 3, got %+v", cart.Items)
	}

	preview := buyer.Preview(t, "SAVE10")
	if preview.Subtotal != 1500 || preview.Discount != 150 {
		t.Fatalf("Unexpected breakdown: %+v", preview)
	}

	order := buyer.Checkout(t, models.CheckoutRequest{
		Buyer:  models.BuyerInfo{Name: "Integration Buyer", Email: "buyer@example.com", Phone: "9841000000"},
		Method: "esewa",
	})
	if order.Total != preview.Subtotal+preview.ServiceFee+preview.Tax {
		t.Fatalf("Order total %d does not match no-promo breakdown", order.Total)
	}

	if cart := buyer.GetCart(t); len(cart.Items) != 0 {
		t.Fatalf("Cart not cleared after checkout: %+v", cart.Items)
	}

	tiers := buyer.ListTicketTypes(t, eventID)
	for _, tier := range tiers {
		if tier.Name == "Normal" && tier.Availability != 27 {
			t.Fatalf("Expected 27 Normal tickets remaining, got %d", tier.Availability)
		}
	}

	orders := buyer.ListOrders(t)
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("Order missing from history: %+v", orders)
	}
}

func TestRegistration(t *testing.T) {
	url := baseURL(t)
	organizer := NewTestClient(url, 1, "organizer")
	attendee := NewTestClient(url, time.Now().UnixNano()%1_000_000, "attendee")

	eventID := seedEvent(t, organizer)

	reg := attendee.Register(t, eventID, "Integration Attendee", "attendee@example.com")
	if reg.Status != models.AttendeeConfirmed {
		t.Fatalf("Expected confirmed registration, got %s", reg.Status)
	}
}
