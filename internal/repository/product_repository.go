package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
)

const productColumns = `id, market_id, owner, name, description, price, shipped, file_key, created_at, updated_at`

func (r *Repository) CreateProduct(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `INSERT INTO products (` + productColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.MarketID,
		product.Owner,
		product.Name,
		product.Description,
		product.Price,
		product.Shipped,
		product.FileKey,
		product.CreatedAt,
		product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return product, nil
}

// UpdateProduct replaces the mutable fields (description, price, shipped).
func (r *Repository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now().UTC()

	query := `UPDATE products
	          SET description = $1, price = $2, shipped = $3, updated_at = $4
	          WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query,
		product.Description,
		product.Price,
		product.Shipped,
		product.UpdatedAt,
		product.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repository) ListProductsByMarket(ctx context.Context, marketID string) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE market_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, marketID)
	if err != nil {
		return nil, fmt.Errorf("query products by market: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.MarketID,
		&product.Owner,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Shipped,
		&product.FileKey,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}
