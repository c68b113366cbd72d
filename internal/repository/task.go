package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaronHenao/backend-tailorflow/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "product_id", "area_id", "worker_id", "sequence",
	"status", "started_at", "finished_at", "created_at", "updated_at",
}

// AssignedTask is a task annotated with the status of its predecessor
// in the product flow. PreviousStatus is nil for the first step.
type AssignedTask struct {
	Task           *domain.Task
	PreviousStatus *domain.Status
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.ProductID,
		&task.AreaID,
		&task.WorkerID,
		&task.Sequence,
		&task.Status,
		&task.StartedAt,
		&task.FinishedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a task by ID with FOR UPDATE lock (within transaction).
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for task %s: %w", taskID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// GetByProductAndSequence retrieves the sibling task of a product with
// the given sequence number (within transaction). Returns
// domain.ErrTaskNotFound if no such sibling exists.
func (r *TaskRepository) GetByProductAndSequence(
	ctx context.Context,
	tx pgx.Tx,
	productID string,
	sequence int,
) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"product_id": productID, "sequence": sequence}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByProductAndSequence query for product %s: %w", productID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// ListStatusesByProduct returns the statuses of all sibling tasks of a
// product (within transaction, for aggregation).
func (r *TaskRepository) ListStatusesByProduct(
	ctx context.Context,
	tx pgx.Tx,
	productID string,
) ([]domain.Status, error) {
	query, args, err := psql.
		Select("status").
		From("tasks").
		Where(sq.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListStatusesByProduct query for product %s: %w", productID, err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query task statuses: %w", err)
	}
	defer rows.Close()

	var statuses []domain.Status
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status); err != nil {
			return nil, fmt.Errorf("scan task status: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return statuses, nil
}

// ListAssigned returns all tasks assigned to a worker, ordered by
// product and sequence, each annotated with the predecessor's status.
func (r *TaskRepository) ListAssigned(ctx context.Context, workerID string) ([]*AssignedTask, error) {
	cols := make([]string, 0, len(taskColumns)+1)
	for _, c := range taskColumns {
		cols = append(cols, "t."+c)
	}
	cols = append(cols, "prev.status AS previous_status")

	query, args, err := psql.
		Select(cols...).
		From("tasks t").
		LeftJoin("tasks prev ON prev.product_id = t.product_id AND prev.sequence = t.sequence - 1").
		Where(sq.Eq{"t.worker_id": workerID}).
		OrderBy("t.product_id", "t.sequence").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListAssigned query for worker %s: %w", workerID, err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assigned tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*AssignedTask
	for rows.Next() {
		var task domain.Task
		var previous *domain.Status
		err := rows.Scan(
			&task.ID,
			&task.ProductID,
			&task.AreaID,
			&task.WorkerID,
			&task.Sequence,
			&task.Status,
			&task.StartedAt,
			&task.FinishedAt,
			&task.CreatedAt,
			&task.UpdatedAt,
			&previous,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assigned task: %w", err)
		}
		tasks = append(tasks, &AssignedTask{Task: &task, PreviousStatus: previous})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// UpdateStatus updates the task status with an optimistic guard on the
// old status. Non-nil timestamps are stamped alongside the transition.
// Returns domain.ErrInvalidTransition if the task no longer holds
// oldStatus.
func (r *TaskRepository) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	taskID string,
	oldStatus domain.Status,
	newStatus domain.Status,
	startedAt *time.Time,
	finishedAt *time.Time,
) error {
	builder := psql.
		Update("tasks").
		Set("status", newStatus).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":     taskID,
			"status": oldStatus,
		})
	if startedAt != nil {
		builder = builder.Set("started_at", *startedAt)
	}
	if finishedAt != nil {
		builder = builder.Set("finished_at", *finishedAt)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateStatus query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s no longer in %s", domain.ErrInvalidTransition, taskID, oldStatus)
	}

	return nil
}

// AssignWorker sets the task's worker. Assignment happens exactly once:
// a task that already has a worker yields domain.ErrTaskAlreadyAssigned.
func (r *TaskRepository) AssignWorker(ctx context.Context, taskID, workerID string) error {
	query, args, err := psql.
		Update("tasks").
		Set("worker_id", workerID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": taskID}).
		Where("worker_id IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build AssignWorker query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("assign worker: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a missing task from one already assigned.
		if _, err := r.GetByID(ctx, taskID); err != nil {
			return err
		}
		return fmt.Errorf("%w: task %s", domain.ErrTaskAlreadyAssigned, taskID)
	}

	return nil
}

// Create inserts a new task within a transaction, populating ID,
// CreatedAt and UpdatedAt.
func (r *TaskRepository) Create(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	if task.Status == "" {
		task.Status = domain.StatusPending
	}

	query, args, err := psql.
		Insert("tasks").
		Columns("product_id", "area_id", "worker_id", "sequence", "status").
		Values(task.ProductID, task.AreaID, task.WorkerID, task.Sequence, task.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for task: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// FindDelayCandidates returns tasks that have been IN_PROCESS since
// before the cutoff. Used by the delay audit.
func (r *TaskRepository) FindDelayCandidates(ctx context.Context, cutoff time.Time) ([]*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"status": domain.StatusInProcess}).
		Where(sq.Lt{"started_at": cutoff}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build FindDelayCandidates query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query delay candidates: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}
