package repository

import (
	"mela/internal/database"
)

// Repositories is the Postgres storage driver: one repository per aggregate.
type Repositories struct {
	Events    *EventRepository
	Inventory *InventoryRepository
	Attendees *AttendeeRepository
	Orders    *OrderRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:    NewEventRepository(db),
		Inventory: NewInventoryRepository(db),
		Attendees: NewAttendeeRepository(db),
		Orders:    NewOrderRepository(db),
	}
}
