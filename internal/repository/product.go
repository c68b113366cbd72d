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

var productColumns = []string{
	"id", "order_id", "category_id", "name", "fabric", "status", "created_at",
}

// ProductRepository handles database operations for products.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	err := row.Scan(
		&product.ID,
		&product.OrderID,
		&product.CategoryID,
		&product.Name,
		&product.Fabric,
		&product.Status,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &product, nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	query, args, err := psql.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for product: %w", err)
	}

	return scanProduct(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a product by ID with FOR UPDATE lock
// (within transaction). The cascade takes this lock so that concurrent
// sibling transitions serialize their recomputation of the shared
// aggregate.
func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, productID string) (*domain.Product, error) {
	query, args, err := psql.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": productID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for product %s: %w", productID, err)
	}

	return scanProduct(tx.QueryRow(ctx, query, args...))
}

// ListStatusesByOrder returns the statuses of all products of an order
// (within transaction, for aggregation).
func (r *ProductRepository) ListStatusesByOrder(
	ctx context.Context,
	tx pgx.Tx,
	orderID string,
) ([]domain.Status, error) {
	query, args, err := psql.
		Select("status").
		From("products").
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListStatusesByOrder query for order %s: %w", orderID, err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query product statuses: %w", err)
	}
	defer rows.Close()

	var statuses []domain.Status
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status); err != nil {
			return nil, fmt.Errorf("scan product status: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return statuses, nil
}

// UpdateStatus writes the product's aggregate status (within transaction).
func (r *ProductRepository) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	productID string,
	status domain.Status,
) error {
	query, args, err := psql.
		Update("products").
		Set("status", status).
		Where(sq.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateStatus query for product %s: %w", productID, err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	return nil
}

// Create inserts a new product within a transaction, populating ID and
// CreatedAt.
func (r *ProductRepository) Create(ctx context.Context, tx pgx.Tx, product *domain.Product) error {
	if product.Status == "" {
		product.Status = domain.StatusPending
	}

	query, args, err := psql.
		Insert("products").
		Columns("order_id", "category_id", "name", "fabric", "status").
		Values(product.OrderID, product.CategoryID, product.Name, product.Fabric, product.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for product: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&product.ID, &product.CreatedAt); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}
