package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listProductsQuery = `
		SELECT product_id, name, cost_price, selling_price, stock_quantity, reorder_level, created_at, updated_at
		FROM products
		ORDER BY product_id
	`
	listBelowReorderLevelQuery = `
		SELECT product_id, name, cost_price, selling_price, stock_quantity, reorder_level, created_at, updated_at
		FROM products
		WHERE stock_quantity < reorder_level
		ORDER BY product_id
	`
	getProductByIDQuery = `
		SELECT product_id, name, cost_price, selling_price, stock_quantity, reorder_level, created_at, updated_at
		FROM products
		WHERE product_id = $1
	`
	insertProductQuery = `
		INSERT INTO products (name, cost_price, selling_price, stock_quantity, reorder_level, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING product_id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			cost_price = $2,
			selling_price = $3,
			stock_quantity = $4,
			reorder_level = $5,
			updated_at = $6
		WHERE product_id = $7
	`
	deleteProductQuery = `DELETE FROM products WHERE product_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	return r.query(ctx, listProductsQuery)
}

func (r *PostgresRepository) ListBelowReorderLevel(ctx context.Context) ([]Product, error) {
	return r.query(ctx, listBelowReorderLevelQuery)
}

func (r *PostgresRepository) query(ctx context.Context, q string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	row := r.db.QueryRowContext(ctx, getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		insertProductQuery,
		p.Name,
		p.CostPrice,
		p.SellingPrice,
		p.StockQuantity,
		p.ReorderLevel,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, p Product) (Product, error) {
	result, err := r.db.ExecContext(ctx,
		updateProductQuery,
		p.Name,
		p.CostPrice,
		p.SellingPrice,
		p.StockQuantity,
		p.ReorderLevel,
		p.UpdatedAt,
		id,
	)
	if err != nil {
		return Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset deletes all products and inserts the provided list in a single transaction.
func (r *PostgresRepository) Reset(ctx context.Context, products []Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	for _, p := range products {
		var id int
		err := tx.QueryRowContext(ctx, insertProductQuery,
			p.Name,
			p.CostPrice,
			p.SellingPrice,
			p.StockQuantity,
			p.ReorderLevel,
			p.CreatedAt,
			p.UpdatedAt,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.CostPrice,
		&p.SellingPrice,
		&p.StockQuantity,
		&p.ReorderLevel,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return Product{}, err
	}
	return p, nil
}
