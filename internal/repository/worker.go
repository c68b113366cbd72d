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

var workerColumns = []string{
	"id", "area_id", "name", "token", "is_active", "created_at",
}

// WorkerRepository handles database operations for workers.
type WorkerRepository struct {
	pool *pgxpool.Pool
}

// NewWorkerRepository creates a new WorkerRepository.
func NewWorkerRepository(pool *pgxpool.Pool) *WorkerRepository {
	return &WorkerRepository{pool: pool}
}

func scanWorker(row pgx.Row) (*domain.Worker, error) {
	var worker domain.Worker
	err := row.Scan(
		&worker.ID,
		&worker.AreaID,
		&worker.Name,
		&worker.Token,
		&worker.IsActive,
		&worker.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkerNotFound
		}
		return nil, fmt.Errorf("scan worker: %w", err)
	}
	return &worker, nil
}

// GetByToken finds a worker by authentication token.
func (r *WorkerRepository) GetByToken(ctx context.Context, token string) (*domain.Worker, error) {
	query, args, err := psql.
		Select(workerColumns...).
		From("workers").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByToken query: %w", err)
	}

	return scanWorker(r.pool.QueryRow(ctx, query, args...))
}

// GetByID retrieves a worker by ID.
func (r *WorkerRepository) GetByID(ctx context.Context, workerID string) (*domain.Worker, error) {
	query, args, err := psql.
		Select(workerColumns...).
		From("workers").
		Where(sq.Eq{"id": workerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for worker: %w", err)
	}

	return scanWorker(r.pool.QueryRow(ctx, query, args...))
}
