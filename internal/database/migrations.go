package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createEventsTable,
		createTicketTypesTable,
		createReservationsTable,
		createOrdersTable,
		createOrderItemsTable,
		createAttendeesTable,
		createReservationsStatusIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id SERIAL PRIMARY KEY,
    title VARCHAR(500) NOT NULL,
    description TEXT,
    category VARCHAR(100) NOT NULL DEFAULT '',
    event_date VARCHAR(20) NOT NULL,
    event_time VARCHAR(20) NOT NULL DEFAULT '',
    venue VARCHAR(500) NOT NULL DEFAULT '',
    organizer VARCHAR(255) NOT NULL DEFAULT '',
    organizer_id BIGINT NOT NULL,
    capacity INTEGER NOT NULL CHECK (capacity >= 0),
    registered_count INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'upcoming',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (registered_count >= 0 AND registered_count <= capacity),
    CHECK (status IN ('upcoming', 'past', 'cancelled'))
);`

const createTicketTypesTable = `
CREATE TABLE IF NOT EXISTS ticket_types (
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    name VARCHAR(100) NOT NULL,
    price BIGINT NOT NULL CHECK (price >= 0),
    remaining INTEGER NOT NULL CHECK (remaining >= 0),
    version BIGINT NOT NULL DEFAULT 1,
    perks TEXT[] NOT NULL DEFAULT '{}',

    PRIMARY KEY (event_id, name)
);`

const createReservationsTable = `
CREATE TABLE IF NOT EXISTS ticket_reservations (
    token UUID PRIMARY KEY,
    event_id INTEGER NOT NULL,
    ticket_type VARCHAR(100) NOT NULL,
    quantity INTEGER NOT NULL CHECK (quantity >= 1),
    status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    FOREIGN KEY (event_id, ticket_type) REFERENCES ticket_types(event_id, name) ON DELETE CASCADE,
    CHECK (status IN ('ACTIVE', 'COMMITTED', 'RELEASED'))
);`

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
    id VARCHAR(50) PRIMARY KEY,
    user_id BIGINT NOT NULL,
    buyer_name VARCHAR(255) NOT NULL,
    buyer_email VARCHAR(255) NOT NULL,
    buyer_phone VARCHAR(50) NOT NULL,
    promo_code VARCHAR(50) NOT NULL DEFAULT '',
    payment_method VARCHAR(20) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
    subtotal BIGINT NOT NULL,
    service_fee BIGINT NOT NULL,
    tax BIGINT NOT NULL,
    discount BIGINT NOT NULL,
    total BIGINT NOT NULL CHECK (total >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createOrderItemsTable = `
CREATE TABLE IF NOT EXISTS order_items (
    id SERIAL PRIMARY KEY,
    order_id VARCHAR(50) NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    event_id INTEGER NOT NULL,
    ticket_type VARCHAR(100) NOT NULL,
    event_title VARCHAR(500) NOT NULL,
    unit_price BIGINT NOT NULL,
    quantity INTEGER NOT NULL CHECK (quantity >= 1)
);`

const createAttendeesTable = `
CREATE TABLE IF NOT EXISTS attendees (
    id SERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    event_title VARCHAR(500) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
    registered_date TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE (event_id, user_id),
    CHECK (status IN ('confirmed', 'pending'))
);`

const createReservationsStatusIndex = `
CREATE INDEX IF NOT EXISTS ticket_reservations_active_idx
ON ticket_reservations (status, created_at);`
