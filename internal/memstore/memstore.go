// Package memstore is the single-process storage driver: every store
// contract is satisfied with in-process maps and per-resource locks. It
// backs local development without Postgres and the service-level tests.
package memstore

import (
	"sync"

	"mela/internal/models"
)

type Store struct {
	mu sync.RWMutex

	events       map[int64]*models.Event
	tickets      map[ticketKey]*models.TicketType
	reservations map[string]*models.Reservation
	attendees    map[int64][]models.Attendee // by event id
	orders       map[string]*models.Order
	orderIDs     []string // insertion order

	// Per-resource locks: one per ticket type for reserve/release, one per
	// event for register/unregister. Coarser locking would be correct but
	// would serialize unrelated events.
	ticketLocks locks[ticketKey]
	eventLocks  locks[int64]

	nextEventID    int64
	nextAttendeeID int64
}

type ticketKey struct {
	eventID int64
	name    string
}

func New() *Store {
	return &Store{
		events:       make(map[int64]*models.Event),
		tickets:      make(map[ticketKey]*models.TicketType),
		reservations: make(map[string]*models.Reservation),
		attendees:    make(map[int64][]models.Attendee),
		orders:       make(map[string]*models.Order),
	}
}

// locks hands out one mutex per key, lazily.
type locks[K comparable] struct {
	mu sync.Mutex
	m  map[K]*sync.Mutex
}

func (l *locks[K]) get(key K) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.m == nil {
		l.m = make(map[K]*sync.Mutex)
	}
	if _, ok := l.m[key]; !ok {
		l.m[key] = &sync.Mutex{}
	}
	return l.m[key]
}
