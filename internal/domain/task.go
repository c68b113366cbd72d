package domain

import "time"

// Task represents one production step of a product, executed by a
// single worker in a single area. Tasks of a product form a fixed
// sequence: the task with sequence n may only start once the task with
// sequence n-1 is finished.
type Task struct {
	ID         string
	ProductID  string
	AreaID     string
	WorkerID   *string
	Sequence   int
	Status     Status
	StartedAt  *time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAssignedTo checks if the task is assigned to the given worker.
func (t *Task) IsAssignedTo(workerID string) bool {
	return t.WorkerID != nil && *t.WorkerID == workerID
}

// IsFirst returns true if the task is the first step of its product's
// flow and therefore has no predecessor.
func (t *Task) IsFirst() bool {
	return t.Sequence == 1
}
