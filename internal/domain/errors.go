package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound        = errors.New("task not found")
	ErrNotAssignee         = errors.New("worker is not assigned to this task")
	ErrTaskAlreadyStarted  = errors.New("task is already in process")
	ErrTaskAlreadyFinished = errors.New("task is already finished")
	ErrTaskAlreadyAssigned = errors.New("task already has a worker assigned")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDependencyUnmet     = errors.New("previous task is not finished")

	// ErrFlowIntegrity marks a provisioning bug: a task with sequence
	// greater than one whose predecessor row does not exist.
	ErrFlowIntegrity = errors.New("flow integrity violation: predecessor task missing")

	// Order and product errors
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrNoFlowDefined   = errors.New("category has no flow defined")

	// ErrTransient marks a storage-level failure (lock timeout,
	// serialization conflict) that aborted the whole transition. The
	// pre-call state is intact and the caller may retry.
	ErrTransient = errors.New("transient storage failure")

	// Worker errors
	ErrWorkerNotFound = errors.New("worker not found")
	ErrWorkerInactive = errors.New("worker is inactive")
	ErrInvalidToken   = errors.New("invalid authentication token")
)
