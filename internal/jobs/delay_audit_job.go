// Package jobs contains the background jobs scheduled alongside the
// HTTP server. Jobs implement cron.Job and are registered on a shared
// cron scheduler at startup.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aaronHenao/backend-tailorflow/internal/service"
)

// delayAuditTimeout bounds one audit run; an audit that cannot finish
// in this window is aborted and picked up by the next tick.
const delayAuditTimeout = 2 * time.Minute

// DelayAuditJob periodically stamps DELAYED on tasks that have been in
// process for longer than the configured threshold. It is the
// out-of-band producer of the DELAYED overlay state; transitions and
// aggregation never set it.
type DelayAuditJob struct {
	taskService *service.TaskService
	threshold   time.Duration
}

// NewDelayAuditJob creates a new DelayAuditJob.
func NewDelayAuditJob(taskService *service.TaskService, threshold time.Duration) (*DelayAuditJob, error) {
	if taskService == nil {
		return nil, errors.New("taskService is required")
	}
	if threshold <= 0 {
		return nil, errors.New("threshold must be positive")
	}
	return &DelayAuditJob{
		taskService: taskService,
		threshold:   threshold,
	}, nil
}

// Run executes one audit pass. Implements cron.Job.
func (j *DelayAuditJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), delayAuditTimeout)
	defer cancel()

	count, err := j.taskService.AuditDelays(ctx, j.threshold)
	if err != nil {
		slog.Error("delay audit failed", "marked", count, "error", err)
		return
	}
	if count > 0 {
		slog.Info("delay audit marked tasks", "marked", count)
	}
}
