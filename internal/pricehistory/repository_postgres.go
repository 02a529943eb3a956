package pricehistory

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	insertEntryQuery = `
		INSERT INTO price_history (product_id, old_price, new_price, reason, changed_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING price_history_id
	`
	listByProductQuery = `
		SELECT price_history_id, product_id, old_price, new_price, reason, changed_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY changed_at DESC, price_history_id DESC
	`
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, e Entry) (Entry, error) {
	err := r.db.QueryRowContext(ctx, insertEntryQuery,
		e.ProductID, e.OldPrice, e.NewPrice, e.Reason, e.ChangedAt,
	).Scan(&e.ID)
	if err != nil {
		return Entry{}, fmt.Errorf("insert price history: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) ListByProduct(ctx context.Context, productID int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, listByProductQuery, productID)
	if err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.OldPrice, &e.NewPrice, &e.Reason, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
