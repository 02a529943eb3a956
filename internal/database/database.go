// Package database opens the Postgres and Redis connections and owns the schema.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

// schema is applied in order on startup; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_id SERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		cost_price NUMERIC(18,2) NOT NULL,
		selling_price NUMERIC(18,2) NOT NULL,
		stock_quantity INT NOT NULL DEFAULT 0,
		reorder_level INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products (name)`,
	`CREATE TABLE IF NOT EXISTS price_history (
		price_history_id SERIAL PRIMARY KEY,
		product_id INT NOT NULL REFERENCES products (product_id) ON DELETE CASCADE,
		old_price NUMERIC(18,2) NOT NULL,
		new_price NUMERIC(18,2) NOT NULL,
		reason VARCHAR(500) NOT NULL DEFAULT '',
		changed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_logs (
		inventory_log_id SERIAL PRIMARY KEY,
		product_id INT NOT NULL,
		product_name VARCHAR(200) NOT NULL DEFAULT '',
		stock_quantity INT NOT NULL,
		reorder_level INT NOT NULL,
		message VARCHAR(1000) NOT NULL DEFAULT '',
		logged_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_logs_logged_at ON inventory_logs (logged_at)`,
}

// Open connects to Postgres through the pgx stdlib driver and pings it.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables the repositories rely on.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
