package inventorylog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

const (
	insertEntryQuery = `
		INSERT INTO inventory_logs (product_id, product_name, stock_quantity, reorder_level, message, logged_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING inventory_log_id
	`
	listEntriesQuery = `
		SELECT inventory_log_id, product_id, product_name, stock_quantity, reorder_level, message, logged_at
		FROM inventory_logs
		ORDER BY logged_at DESC, inventory_log_id DESC
		LIMIT $1
	`
	listEntriesByProductQuery = `
		SELECT inventory_log_id, product_id, product_name, stock_quantity, reorder_level, message, logged_at
		FROM inventory_logs
		WHERE product_id = ANY($1::int[])
		ORDER BY logged_at DESC, inventory_log_id DESC
		LIMIT $2
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
		e.ProductID, e.ProductName, e.StockQuantity, e.ReorderLevel, e.Message, e.LoggedAt,
	).Scan(&e.ID)
	if err != nil {
		return Entry{}, fmt.Errorf("insert inventory log: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Entry, error) {
	return r.query(ctx, listEntriesQuery, limit)
}

// ListByProductIDs returns an empty slice without querying when ids is empty.
func (r *PostgresRepository) ListByProductIDs(ctx context.Context, ids []int, limit int) ([]Entry, error) {
	if len(ids) == 0 {
		return []Entry{}, nil
	}
	return r.query(ctx, listEntriesByProductQuery, pq.Array(ids), limit)
}

func (r *PostgresRepository) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query inventory logs: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.ProductName, &e.StockQuantity, &e.ReorderLevel, &e.Message, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan inventory log: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
