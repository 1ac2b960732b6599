package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"mela/internal/cart"
	"mela/internal/memstore"
	"mela/internal/models"
)

type stubGateway struct {
	mu       sync.Mutex
	err      error
	attempts int
	lastAmt  int64
}

func (g *stubGateway) Attempt(ctx context.Context, amount int64, method string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attempts++
	g.lastAmt = amount
	return g.err
}

type stubPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *stubPublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *stubPublisher) published(subject string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, s := range p.subjects {
		if s == subject {
			n++
		}
	}
	return n
}

type testEnv struct {
	services  *Services
	store     *memstore.Store
	gateway   *stubGateway
	publisher *stubPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memstore.New()
	gateway := &stubGateway{}
	publisher := &stubPublisher{}
	ledger := cart.NewLedger(cart.NewMemoryStore())

	stores := Stores{Events: store, Inventory: store, Attendees: store, Orders: store}
	return &testEnv{
		services:  NewServices(stores, ledger, gateway, publisher, nil),
		store:     store,
		gateway:   gateway,
		publisher: publisher,
	}
}

func (e *testEnv) seedEvent(t *testing.T, capacity int, tiers ...models.TicketType) *models.Event {
	t.Helper()

	event := &models.Event{
		Title:       "Kathmandu Music Festival",
		Category:    "music",
		Date:        "2026-10-15",
		Time:        "18:00",
		Venue:       "Dasharath Stadium",
		Organizer:   "Mela Events",
		OrganizerID: 42,
		Capacity:    capacity,
		Status:      "upcoming",
		TicketTypes: tiers,
	}
	require.NoError(t, e.store.CreateEvent(context.Background(), event))
	return event
}

func (e *testEnv) addToCart(t *testing.T, sessionID string, eventID int64, tier string, price int64, qty int) {
	t.Helper()

	err := e.services.Cart.AddItem(context.Background(), sessionID, models.CartItem{
		EventID:    eventID,
		TicketType: tier,
		EventTitle: "Kathmandu Music Festival",
		Price:      price,
		Quantity:   qty,
	})
	require.NoError(t, err)
}

func (e *testEnv) remaining(t *testing.T, eventID int64, tier string) int {
	t.Helper()

	n, err := e.store.Availability(context.Background(), eventID, tier)
	require.NoError(t, err)
	return n
}

func validBuyer() models.BuyerInfo {
	return models.BuyerInfo{Name: "Sita Sharma", Email: "sita@example.com", Phone: "9841000000"}
}

var errGatewayDown = errors.New("gateway unavailable")
