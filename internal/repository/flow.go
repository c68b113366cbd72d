package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaronHenao/backend-tailorflow/internal/domain"
)

// FlowRepository handles database operations for category flows.
type FlowRepository struct {
	pool *pgxpool.Pool
}

// NewFlowRepository creates a new FlowRepository.
func NewFlowRepository(pool *pgxpool.Pool) *FlowRepository {
	return &FlowRepository{pool: pool}
}

// ListByCategory returns the flow steps of a category ordered by
// sequence (within transaction, used during provisioning).
func (r *FlowRepository) ListByCategory(ctx context.Context, tx pgx.Tx, categoryID string) ([]*domain.Flow, error) {
	query, args, err := psql.
		Select("id", "category_id", "area_id", "sequence").
		From("flows").
		Where(sq.Eq{"category_id": categoryID}).
		OrderBy("sequence ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByCategory query for category %s: %w", categoryID, err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flows: %w", err)
	}
	defer rows.Close()

	var flows []*domain.Flow
	for rows.Next() {
		var flow domain.Flow
		if err := rows.Scan(&flow.ID, &flow.CategoryID, &flow.AreaID, &flow.Sequence); err != nil {
			return nil, fmt.Errorf("scan flow: %w", err)
		}
		flows = append(flows, &flow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return flows, nil
}
