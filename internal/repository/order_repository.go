package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
)

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	var addressJSON any
	if order.ShippingAddress != nil {
		b, err := json.Marshal(order.ShippingAddress)
		if err != nil {
			return fmt.Errorf("marshal shipping address: %w", err)
		}
		addressJSON = string(b)
	}

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	query := `INSERT INTO orders (id, user_id, product_id, shipping_address, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.ProductID,
		addressJSON,
		order.CreatedAt,
		order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT id, user_id, product_id, shipping_address, created_at, updated_at
	          FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `SELECT id, user_id, product_id, shipping_address, created_at, updated_at
	          FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var addressJSON sql.NullString
	if err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.ProductID,
		&addressJSON,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if addressJSON.Valid && addressJSON.String != "" {
		var addr domain.ShippingAddress
		if err := json.Unmarshal([]byte(addressJSON.String), &addr); err != nil {
			return nil, fmt.Errorf("unmarshal shipping address: %w", err)
		}
		order.ShippingAddress = &addr
	}
	return &order, nil
}
