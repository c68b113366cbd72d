package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaronHenao/backend-tailorflow/internal/domain"
)

var orderColumns = []string{
	"id", "customer_id", "status", "entry_date", "estimated_delivery_date",
}

// OrderRepository handles database operations for orders.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.Status,
		&order.EntryDate,
		&order.EstimatedDeliveryDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &order, nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query, args, err := psql.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for order: %w", err)
	}

	return scanOrder(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves an order by ID with FOR UPDATE lock
// (within transaction).
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.Order, error) {
	query, args, err := psql.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for order %s: %w", orderID, err)
	}

	return scanOrder(tx.QueryRow(ctx, query, args...))
}

// UpdateStatus writes the order's aggregate status (within transaction).
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	orderID string,
	status domain.Status,
) error {
	query, args, err := psql.
		Update("orders").
		Set("status", status).
		Where(sq.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateStatus query for order %s: %w", orderID, err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// Create inserts a new order within a transaction, populating ID and
// EntryDate.
func (r *OrderRepository) Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	if order.Status == "" {
		order.Status = domain.StatusPending
	}

	query, args, err := psql.
		Insert("orders").
		Columns("customer_id", "status", "estimated_delivery_date").
		Values(order.CustomerID, order.Status, order.EstimatedDeliveryDate).
		Suffix("RETURNING id, entry_date").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for order: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&order.ID, &order.EntryDate); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}
