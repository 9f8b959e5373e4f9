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

func (r *Repository) CreateMarket(ctx context.Context, market *domain.Market) error {
	tagsJSON, err := json.Marshal(market.Tags)
	if err != nil {
		return fmt.Errorf("marshal market tags: %w", err)
	}

	now := time.Now().UTC()
	market.CreatedAt = now
	market.UpdatedAt = now

	query := `INSERT INTO markets (id, name, owner, tags, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		market.ID,
		market.Name,
		market.Owner,
		string(tagsJSON),
		market.CreatedAt,
		market.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert market: %w", err)
	}
	return nil
}

func (r *Repository) GetMarket(ctx context.Context, id string) (*domain.Market, error) {
	query := `SELECT id, name, owner, tags, created_at, updated_at
	          FROM markets WHERE id = $1`

	market, err := scanMarket(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMarketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query market by id: %w", err)
	}
	return market, nil
}

// SearchMarkets matches the query against market name, owner and tags,
// case-insensitively. An empty query returns all markets, newest first.
func (r *Repository) SearchMarkets(ctx context.Context, q string) ([]*domain.Market, error) {
	query := `SELECT id, name, owner, tags, created_at, updated_at
	          FROM markets
	          WHERE $1 = ''
	             OR LOWER(name) LIKE '%' || LOWER($1) || '%'
	             OR LOWER(owner) LIKE '%' || LOWER($1) || '%'
	             OR LOWER(tags) LIKE '%' || LOWER($1) || '%'
	          ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, q)
	if err != nil {
		return nil, fmt.Errorf("search markets: %w", err)
	}
	defer rows.Close()

	var markets []*domain.Market
	for rows.Next() {
		market, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan market row: %w", err)
		}
		markets = append(markets, market)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return markets, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMarket(row rowScanner) (*domain.Market, error) {
	var market domain.Market
	var tagsJSON []byte
	if err := row.Scan(
		&market.ID,
		&market.Name,
		&market.Owner,
		&tagsJSON,
		&market.CreatedAt,
		&market.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tagsJSON, &market.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal market tags: %w", err)
	}
	return &market, nil
}
