package repository

import (
	"context"
	"database/sql"

	"mela/internal/database"
	apperrors "mela/internal/errors"
	"mela/internal/models"
)

type AttendeeRepository struct {
	db *database.DB
}

func NewAttendeeRepository(db *database.DB) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

// Register inserts the attendee row and increments the event's registered
// count in one transaction. The FOR UPDATE lock on the event row serializes
// concurrent registrations so the capacity check and the increment are not
// observably separable.
func (r *AttendeeRepository) Register(ctx context.Context, attendee *models.Attendee) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var title string
	var capacity, registered int
	eventQuery := `SELECT title, capacity, registered_count FROM events WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, eventQuery, attendee.EventID).Scan(&title, &capacity, &registered)
	if err == sql.ErrNoRows {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}

	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM attendees WHERE event_id = $1 AND user_id = $2)`
	if err := tx.QueryRowContext(ctx, existsQuery, attendee.EventID, attendee.UserID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return apperrors.ErrAlreadyRegistered
	}

	if registered >= capacity {
		return apperrors.ErrEventFull
	}

	attendee.EventTitle = title

	insertQuery := `
		INSERT INTO attendees (user_id, name, email, event_id, event_title, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, registered_date`

	err = tx.QueryRowContext(ctx, insertQuery,
		attendee.UserID, attendee.Name, attendee.Email, attendee.EventID, attendee.EventTitle, attendee.Status,
	).Scan(&attendee.ID, &attendee.RegisteredDate)
	if err != nil {
		return err
	}

	updateQuery := `UPDATE events SET registered_count = registered_count + 1 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateQuery, attendee.EventID); err != nil {
		return err
	}

	return tx.Commit()
}

// Unregister removes the registration and decrements the count, clamped at 0.
func (r *AttendeeRepository) Unregister(ctx context.Context, eventID, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteQuery := `DELETE FROM attendees WHERE event_id = $1 AND user_id = $2 RETURNING id`
	var deletedID int64
	err = tx.QueryRowContext(ctx, deleteQuery, eventID, userID).Scan(&deletedID)
	if err == sql.ErrNoRows {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}

	updateQuery := `UPDATE events SET registered_count = GREATEST(registered_count - 1, 0) WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateQuery, eventID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *AttendeeRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Attendee, error) {
	query := `
		SELECT id, user_id, name, email, event_id, event_title, status, registered_date
		FROM attendees
		WHERE event_id = $1
		ORDER BY registered_date`

	return r.list(ctx, query, eventID)
}

func (r *AttendeeRepository) ListByUser(ctx context.Context, userID int64) ([]models.Attendee, error) {
	query := `
		SELECT id, user_id, name, email, event_id, event_title, status, registered_date
		FROM attendees
		WHERE user_id = $1
		ORDER BY registered_date`

	return r.list(ctx, query, userID)
}

func (r *AttendeeRepository) list(ctx context.Context, query string, arg interface{}) ([]models.Attendee, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []models.Attendee
	for rows.Next() {
		var a models.Attendee
		err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Email, &a.EventID, &a.EventTitle, &a.Status, &a.RegisteredDate)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}

	return attendees, rows.Err()
}
