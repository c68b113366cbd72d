package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/aaronHenao/backend-tailorflow/internal/domain"
	"github.com/aaronHenao/backend-tailorflow/internal/repository"
)

const (
	retryBaseDelay = 50 * time.Millisecond
	retryMaxTries  = 3
)

// TaskService coordinates task state transitions and the cascade that
// keeps product and order aggregate statuses in sync with their
// children. Each transition runs as a single transaction: the task row
// is locked first, then the owning product, then the owning order, so
// concurrent sibling transitions serialize on the shared aggregates
// instead of overwriting each other with stale projections.
type TaskService struct {
	pool        *pgxpool.Pool
	taskRepo    *repository.TaskRepository
	productRepo *repository.ProductRepository
	orderRepo   *repository.OrderRepository
	workerRepo  *repository.WorkerRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	productRepo *repository.ProductRepository,
	orderRepo *repository.OrderRepository,
	workerRepo *repository.WorkerRepository,
) *TaskService {
	return &TaskService{
		pool:        pool,
		taskRepo:    taskRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		workerRepo:  workerRepo,
	}
}

// Start transitions a PENDING task to IN_PROCESS on behalf of its
// assigned worker, stamping the start timestamp. The task with the
// preceding sequence number must be FINISHED first. On success the
// product and order aggregates are recomputed in the same transaction.
func (s *TaskService) Start(ctx context.Context, taskID, workerID string) (*domain.Task, error) {
	var task *domain.Task
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.start(ctx, taskID, workerID)
		return err
	})
	return task, err
}

func (s *TaskService) start(ctx context.Context, taskID, workerID string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsAssignedTo(workerID) {
		return nil, fmt.Errorf("%w: task %s, worker %s", domain.ErrNotAssignee, taskID, workerID)
	}

	switch task.Status {
	case domain.StatusPending:
		// ok
	case domain.StatusInProcess:
		return nil, fmt.Errorf("%w: task %s", domain.ErrTaskAlreadyStarted, taskID)
	default:
		return nil, fmt.Errorf("%w: task %s cannot start from %s", domain.ErrInvalidTransition, taskID, task.Status)
	}

	if err := s.checkPredecessorFinished(ctx, tx, task); err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.taskRepo.UpdateStatus(ctx, tx, taskID,
		domain.StatusPending, domain.StatusInProcess,
		&now, nil,
	)
	if err != nil {
		return nil, err
	}

	if err := s.recomputeAggregates(ctx, tx, task.ProductID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	task.Status = domain.StatusInProcess
	task.StartedAt = &now
	task.UpdatedAt = now

	slog.Info("task started",
		"task_id", taskID,
		"worker_id", workerID,
		"product_id", task.ProductID,
		"sequence", task.Sequence,
	)

	return task, nil
}

// Complete transitions an IN_PROCESS task to FINISHED on behalf of its
// assigned worker, stamping the end timestamp, and recomputes the
// product and order aggregates in the same transaction.
func (s *TaskService) Complete(ctx context.Context, taskID, workerID string) (*domain.Task, error) {
	var task *domain.Task
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.complete(ctx, taskID, workerID)
		return err
	})
	return task, err
}

func (s *TaskService) complete(ctx context.Context, taskID, workerID string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsAssignedTo(workerID) {
		return nil, fmt.Errorf("%w: task %s, worker %s", domain.ErrNotAssignee, taskID, workerID)
	}

	switch task.Status {
	case domain.StatusInProcess, domain.StatusDelayed:
		// a delayed task is still mid-work and may finish
	case domain.StatusFinished:
		return nil, fmt.Errorf("%w: task %s", domain.ErrTaskAlreadyFinished, taskID)
	default:
		return nil, fmt.Errorf("%w: task %s cannot finish from %s", domain.ErrInvalidTransition, taskID, task.Status)
	}

	now := time.Now()
	err = s.taskRepo.UpdateStatus(ctx, tx, taskID,
		task.Status, domain.StatusFinished,
		nil, &now,
	)
	if err != nil {
		return nil, err
	}

	if err := s.recomputeAggregates(ctx, tx, task.ProductID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	task.Status = domain.StatusFinished
	task.FinishedAt = &now
	task.UpdatedAt = now

	slog.Info("task completed",
		"task_id", taskID,
		"worker_id", workerID,
		"product_id", task.ProductID,
		"sequence", task.Sequence,
	)

	return task, nil
}

// Assign sets a task's worker exactly once. Assignment is not a state
// transition: it does not touch the task status or the aggregates, but
// Start and Complete depend on it having happened.
func (s *TaskService) Assign(ctx context.Context, taskID, workerID string) (*domain.Task, error) {
	worker, err := s.workerRepo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if !worker.IsActive {
		return nil, fmt.Errorf("%w: worker %s", domain.ErrWorkerInactive, workerID)
	}

	if err := s.taskRepo.AssignWorker(ctx, taskID, workerID); err != nil {
		return nil, err
	}

	slog.Info("task assigned", "task_id", taskID, "worker_id", workerID)

	return s.taskRepo.GetByID(ctx, taskID)
}

// AssignedTasks returns the worker's tasks ordered by product and
// sequence, each annotated with the predecessor's status (absent for
// the first step of a flow).
func (s *TaskService) AssignedTasks(ctx context.Context, workerID string) ([]*repository.AssignedTask, error) {
	return s.taskRepo.ListAssigned(ctx, workerID)
}

// checkPredecessorFinished enforces the sequence-dependency gate: the
// sibling with sequence-1 must be FINISHED before this task may start.
// A missing predecessor row for sequence > 1 is a provisioning bug and
// surfaces as ErrFlowIntegrity, never as a satisfied dependency.
func (s *TaskService) checkPredecessorFinished(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	if task.IsFirst() {
		return nil
	}

	prev, err := s.taskRepo.GetByProductAndSequence(ctx, tx, task.ProductID, task.Sequence-1)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return fmt.Errorf("%w: product %s has no task with sequence %d",
				domain.ErrFlowIntegrity, task.ProductID, task.Sequence-1)
		}
		return err
	}

	if prev.Status != domain.StatusFinished {
		return fmt.Errorf("%w: task %s (sequence %d) is %s",
			domain.ErrDependencyUnmet, prev.ID, prev.Sequence, prev.Status)
	}

	return nil
}

// recomputeAggregates projects the product status from its tasks and
// the order status from its products, writing each level only when the
// projected value differs from the stored one. Runs inside the
// transition's transaction; the product and order rows are locked for
// its duration so sibling transitions cannot interleave stale reads
// with fresh writes.
func (s *TaskService) recomputeAggregates(ctx context.Context, tx pgx.Tx, productID string) error {
	product, err := s.productRepo.GetByIDForUpdate(ctx, tx, productID)
	if err != nil {
		return err
	}

	taskStatuses, err := s.taskRepo.ListStatusesByProduct(ctx, tx, productID)
	if err != nil {
		return err
	}
	if status, ok := Project(taskStatuses); ok && status != product.Status {
		if err := s.productRepo.UpdateStatus(ctx, tx, productID, status); err != nil {
			return err
		}
		product.Status = status
	}

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, product.OrderID)
	if err != nil {
		return err
	}

	productStatuses, err := s.productRepo.ListStatusesByOrder(ctx, tx, order.ID)
	if err != nil {
		return err
	}
	if status, ok := Project(productStatuses); ok && status != order.Status {
		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, status); err != nil {
			return err
		}
	}

	return nil
}

// withRetry reruns the whole transition on serialization failures and
// deadlocks. Partial state never survives: each attempt is one
// transaction. When retries are exhausted the error is marked
// transient so callers know the pre-call state is intact.
func (s *TaskService) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(retryMaxTries, retry.NewExponential(retryBaseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if isSerializationFailure(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil && isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	return err
}

// isSerializationFailure reports whether the error is a PostgreSQL
// serialization failure (40001) or deadlock (40P01).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
