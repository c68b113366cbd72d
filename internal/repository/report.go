package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DelayedTaskRow is one row of the delayed-tasks report: a task that
// has been running since StartedAt, with the elapsed days precomputed
// by the database.
type DelayedTaskRow struct {
	TaskID        string
	ProductID     string
	AreaName      string
	WorkerName    *string
	Status        string
	StartedAt     time.Time
	DaysInProcess int
}

// ReportRepository exposes read-only reporting queries over
// pre-aggregated data. No business logic lives here.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// DelayedTasks lists tasks currently in process or delayed, oldest
// first, with the number of days elapsed since they started.
func (r *ReportRepository) DelayedTasks(ctx context.Context) ([]*DelayedTaskRow, error) {
	query, args, err := psql.
		Select(
			"t.id",
			"t.product_id",
			"a.name AS area_name",
			"w.name AS worker_name",
			"t.status",
			"t.started_at",
			"EXTRACT(DAY FROM NOW() - t.started_at)::int AS days_in_process",
		).
		From("tasks t").
		Join("areas a ON a.id = t.area_id").
		LeftJoin("workers w ON w.id = t.worker_id").
		Where(sq.Eq{"t.status": []string{"IN_PROCESS", "DELAYED"}}).
		Where("t.started_at IS NOT NULL").
		OrderBy("t.started_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build DelayedTasks query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query delayed tasks: %w", err)
	}
	defer rows.Close()

	var result []*DelayedTaskRow
	for rows.Next() {
		var row DelayedTaskRow
		err := rows.Scan(
			&row.TaskID,
			&row.ProductID,
			&row.AreaName,
			&row.WorkerName,
			&row.Status,
			&row.StartedAt,
			&row.DaysInProcess,
		)
		if err != nil {
			return nil, fmt.Errorf("scan delayed task: %w", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}
