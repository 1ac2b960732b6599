package repository

import (
	"context"
	"database/sql"

	"mela/internal/database"
	"mela/internal/models"
)

type OrderRepository struct {
	db *database.DB
}

func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (id, user_id, buyer_name, buyer_email, buyer_phone, promo_code, payment_method, status, subtotal, service_fee, tax, discount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at`

	err = tx.QueryRowContext(ctx, orderQuery,
		order.ID,
		order.UserID,
		order.BuyerName,
		order.BuyerEmail,
		order.BuyerPhone,
		order.PromoCode,
		order.Method,
		order.Status,
		order.Subtotal,
		order.ServiceFee,
		order.Tax,
		order.Discount,
		order.Total,
	).Scan(&order.CreatedAt)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (order_id, event_id, ticket_type, event_title, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if _, err := tx.ExecContext(ctx, itemQuery, item.OrderID, item.EventID, item.TicketType, item.EventTitle, item.UnitPrice, item.Quantity); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, user_id, buyer_name, buyer_email, buyer_phone, promo_code, payment_method, status, subtotal, service_fee, tax, discount, total, created_at
		FROM orders
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.BuyerName,
		&order.BuyerEmail,
		&order.BuyerPhone,
		&order.PromoCode,
		&order.Method,
		&order.Status,
		&order.Subtotal,
		&order.ServiceFee,
		&order.Tax,
		&order.Discount,
		&order.Total,
		&order.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	query := `
		SELECT id, user_id, buyer_name, buyer_email, buyer_phone, promo_code, payment_method, status, subtotal, service_fee, tax, discount, total, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.BuyerName,
			&order.BuyerEmail,
			&order.BuyerPhone,
			&order.PromoCode,
			&order.Method,
			&order.Status,
			&order.Subtotal,
			&order.ServiceFee,
			&order.Tax,
			&order.Discount,
			&order.Total,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.listItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	query := `
		SELECT order_id, event_id, ticket_type, event_title, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.OrderID, &item.EventID, &item.TicketType, &item.EventTitle, &item.UnitPrice, &item.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
