package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mela/internal/database"
	apperrors "mela/internal/errors"
	"mela/internal/models"
)

type InventoryRepository struct {
	db *database.DB
}

func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Reserve decrements remaining stock and records an ACTIVE reservation in
// one transaction. The conditional UPDATE is the atomicity boundary:
// concurrent reservers race on it and the loser sees zero rows affected.
func (r *InventoryRepository) Reserve(ctx context.Context, eventID int64, ticketType string, quantity int) (*models.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE ticket_types
		SET remaining = remaining - $3, version = version + 1
		WHERE event_id = $1 AND name = $2 AND remaining >= $3`

	result, err := tx.ExecContext(ctx, updateQuery, eventID, ticketType, quantity)
	if err != nil {
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM ticket_types WHERE event_id = $1 AND name = $2)`
		if err := tx.QueryRowContext(ctx, checkQuery, eventID, ticketType).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.ErrOutOfStock
	}

	reservation := &models.Reservation{
		Token:      uuid.New().String(),
		EventID:    eventID,
		TicketType: ticketType,
		Quantity:   quantity,
		Status:     models.ReservationActive,
	}

	insertQuery := `
		INSERT INTO ticket_reservations (token, event_id, ticket_type, quantity, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err = tx.QueryRowContext(ctx, insertQuery,
		reservation.Token, reservation.EventID, reservation.TicketType, reservation.Quantity, reservation.Status,
	).Scan(&reservation.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return reservation, nil
}

// Release restores the reserved quantity. Flipping the row out of ACTIVE
// first makes the operation idempotent: a second call matches no row and
// restores nothing.
func (r *InventoryRepository) Release(ctx context.Context, token string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var reservation models.Reservation
	releaseQuery := `
		UPDATE ticket_reservations
		SET status = 'RELEASED'
		WHERE token = $1 AND status = 'ACTIVE'
		RETURNING event_id, ticket_type, quantity`

	err = tx.QueryRowContext(ctx, releaseQuery, token).Scan(
		&reservation.EventID, &reservation.TicketType, &reservation.Quantity,
	)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	restoreQuery := `
		UPDATE ticket_types
		SET remaining = remaining + $3, version = version + 1
		WHERE event_id = $1 AND name = $2`

	if _, err := tx.ExecContext(ctx, restoreQuery, reservation.EventID, reservation.TicketType, reservation.Quantity); err != nil {
		return err
	}

	return tx.Commit()
}

// Commit marks a reservation as converted into an order, so that neither a
// later Release nor the expiration sweeper can restore its stock.
func (r *InventoryRepository) Commit(ctx context.Context, token string) error {
	query := `UPDATE ticket_reservations SET status = 'COMMITTED' WHERE token = $1 AND status = 'ACTIVE'`
	_, err := r.db.ExecContext(ctx, query, token)
	return err
}

func (r *InventoryRepository) Availability(ctx context.Context, eventID int64, ticketType string) (int, error) {
	var remaining int
	query := `SELECT remaining FROM ticket_types WHERE event_id = $1 AND name = $2`

	err := r.db.QueryRowContext(ctx, query, eventID, ticketType).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, apperrors.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	return remaining, nil
}

// ExpireBefore releases every ACTIVE reservation created before the cutoff
// and returns what was released.
func (r *InventoryRepository) ExpireBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error) {
	query := `
		SELECT token, event_id, ticket_type, quantity, status, created_at
		FROM ticket_reservations
		WHERE status = 'ACTIVE' AND created_at < $1`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stale []models.Reservation
	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(&res.Token, &res.EventID, &res.TicketType, &res.Quantity, &res.Status, &res.CreatedAt); err != nil {
			return nil, err
		}
		stale = append(stale, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var expired []models.Reservation
	for _, res := range stale {
		if err := r.Release(ctx, res.Token); err != nil {
			return expired, fmt.Errorf("failed to release reservation %s: %w", res.Token, err)
		}
		res.Status = models.ReservationReleased
		expired = append(expired, res)
	}

	return expired, nil
}
