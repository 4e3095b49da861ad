package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/commercekit/storefront/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// EnsureSchema creates the orders and order_lines tables. Lines cascade on
// order deletion so an order delete cannot strand its lines.
func (r *OrderRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL REFERENCES users (id),
			total_amount NUMERIC(10,2) NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'uncompleted',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS order_lines (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
			product_id VARCHAR(64) NOT NULL,
			product_name TEXT NOT NULL,
			product_category TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price NUMERIC(10,2) NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("orders schema error: %w", err)
	}
	return nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, owner_id, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		order.ID, order.OwnerID, order.TotalAmount, order.Status,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("order creation error: %w", err)
	}
	return nil
}

func (r *OrderRepository) CreateOrderLine(ctx context.Context, line *domain.OrderLine) error {
	query := `
		INSERT INTO order_lines (id, order_id, product_id, product_name, product_category, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		line.ID, line.OrderID, line.ProductID, line.ProductName,
		line.ProductCategory, line.Quantity, line.Price,
	)
	if err != nil {
		return fmt.Errorf("order line creation error: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, owner_id, total_amount, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.OwnerID, &order.TotalAmount, &order.Status,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("order scan error: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, product_name, product_category, quantity, price
		FROM order_lines
		WHERE order_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("order lines query error: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.ProductName,
			&line.ProductCategory, &line.Quantity, &line.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("order line scan error: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *OrderRepository) SetOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, owner_id, total_amount, status, created_at, updated_at
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id, status, time.Now()).Scan(
		&order.ID, &order.OwnerID, &order.TotalAmount, &order.Status,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("order status update error: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("order delete error: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
