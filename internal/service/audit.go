package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaronHenao/backend-tailorflow/internal/domain"
)

// AuditDelays stamps DELAYED on tasks that have been IN_PROCESS for
// longer than the threshold. This is the only producer of DELAYED; the
// transition guard and the aggregation never emit it. The stamp does
// not cascade: parent statuses change only on real task transitions.
// Returns the number of tasks marked, and an error if any task failed.
func (s *TaskService) AuditDelays(ctx context.Context, threshold time.Duration) (int, error) {
	cutoff := time.Now().Add(-threshold)

	tasks, err := s.taskRepo.FindDelayCandidates(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find delay candidates: %w", err)
	}

	if len(tasks) == 0 {
		slog.Info("no delayed tasks found")
		return 0, nil
	}

	count := 0
	var errs []error
	for _, task := range tasks {
		if err := s.markDelayed(ctx, task.ID, cutoff); err != nil {
			slog.Error("failed to mark task delayed",
				"task_id", task.ID,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("task %s: %w", task.ID, err))
			continue
		}
		count++
	}

	slog.Info("delay audit completed",
		"total", len(tasks),
		"marked", count,
		"failed", len(tasks)-count,
	)

	if len(errs) > 0 {
		return count, fmt.Errorf("marked %d/%d tasks, %d failures: %v",
			count, len(tasks), len(tasks)-count, errs)
	}

	return count, nil
}

// markDelayed transitions a single task to DELAYED, re-checking the
// candidate conditions under lock: a worker may have finished the task
// between the candidate scan and this transaction.
func (s *TaskService) markDelayed(ctx context.Context, taskID string, cutoff time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return err
	}

	if task.Status != domain.StatusInProcess || task.StartedAt == nil || !task.StartedAt.Before(cutoff) {
		return nil
	}

	err = s.taskRepo.UpdateStatus(ctx, tx, taskID,
		domain.StatusInProcess, domain.StatusDelayed,
		nil, nil,
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task marked delayed",
		"task_id", taskID,
		"started_at", task.StartedAt,
	)

	return nil
}
