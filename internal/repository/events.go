package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"mela/internal/database"
	"mela/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (title, description, category, event_date, event_time, venue, organizer, organizer_id, capacity, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.Category,
		event.Date,
		event.Time,
		event.Venue,
		event.Organizer,
		event.OrganizerID,
		event.Capacity,
		event.Status,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return err
	}

	for i := range event.TicketTypes {
		tt := &event.TicketTypes[i]
		tt.EventID = event.ID

		insertQuery := `
			INSERT INTO ticket_types (event_id, name, price, remaining, perks)
			VALUES ($1, $2, $3, $4, $5)`

		if _, err := tx.ExecContext(ctx, insertQuery, tt.EventID, tt.Name, tt.Price, tt.Remaining, pq.Array(tt.Perks)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *EventRepository) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `
		SELECT id, title, description, category, event_date, event_time, venue, organizer, organizer_id, capacity, registered_count, status, created_at
		FROM events
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Category,
		&event.Date,
		&event.Time,
		&event.Venue,
		&event.Organizer,
		&event.OrganizerID,
		&event.Capacity,
		&event.RegisteredCount,
		&event.Status,
		&event.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ticketTypes, err := r.ListTicketTypes(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.TicketTypes = ticketTypes

	return event, nil
}

func (r *EventRepository) ListEvents(ctx context.Context, query string, page, pageSize int) ([]models.Event, error) {
	var events []models.Event
	var args []interface{}
	argIndex := 1

	sqlQuery := `
		SELECT id, title, description, category, event_date, event_time, venue, organizer, organizer_id, capacity, registered_count, status, created_at
		FROM events`

	if query != "" {
		sqlQuery += fmt.Sprintf(" WHERE title ILIKE $%d OR category ILIKE $%d", argIndex, argIndex+1)
		pattern := "%" + query + "%"
		args = append(args, pattern, pattern)
		argIndex += 2
	}

	sqlQuery += " ORDER BY id"

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		sqlQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, pageSize, offset)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Category,
			&event.Date,
			&event.Time,
			&event.Venue,
			&event.Organizer,
			&event.OrganizerID,
			&event.Capacity,
			&event.RegisteredCount,
			&event.Status,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (r *EventRepository) ListTicketTypes(ctx context.Context, eventID int64) ([]models.TicketType, error) {
	var ticketTypes []models.TicketType
	query := `
		SELECT event_id, name, price, remaining, version, perks
		FROM ticket_types
		WHERE event_id = $1
		ORDER BY price`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tt models.TicketType
		err := rows.Scan(&tt.EventID, &tt.Name, &tt.Price, &tt.Remaining, &tt.Version, pq.Array(&tt.Perks))
		if err != nil {
			return nil, err
		}
		ticketTypes = append(ticketTypes, tt)
	}

	return ticketTypes, rows.Err()
}

func (r *EventRepository) GetTicketType(ctx context.Context, eventID int64, name string) (*models.TicketType, error) {
	tt := &models.TicketType{}
	query := `
		SELECT event_id, name, price, remaining, version, perks
		FROM ticket_types
		WHERE event_id = $1 AND name = $2`

	err := r.db.QueryRowContext(ctx, query, eventID, name).Scan(
		&tt.EventID, &tt.Name, &tt.Price, &tt.Remaining, &tt.Version, pq.Array(&tt.Perks),
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return tt, nil
}
