package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aaronHenao/backend-tailorflow/internal/handler/dto"
	"github.com/aaronHenao/backend-tailorflow/internal/middleware"
	"github.com/google/uuid"
)

// handleStartTask moves a PENDING task to IN_PROCESS.
// @Summary Start a task
// @Description Authenticated worker starts their assigned task. The preceding task in the product flow must be FINISHED.
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/start [post]
func (h *Handler) handleStartTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	worker, err := middleware.GetWorkerFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Start(ctx, taskID, worker.ID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleCompleteTask moves an IN_PROCESS task to FINISHED.
// @Summary Complete a task
// @Description Authenticated worker completes their assigned task. Product and order statuses are recomputed in the same transaction.
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/complete [post]
func (h *Handler) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	worker, err := middleware.GetWorkerFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Complete(ctx, taskID, worker.ID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleAssignTask assigns an unassigned task to a worker.
// @Summary Assign a task
// @Description Assigns an unassigned task to a worker. Assignment is one-time; reassignment returns a conflict.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.AssignTaskRequest true "Assignment request"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/assign [post]
func (h *Handler) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetWorkerFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.WorkerID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "worker_id is required")
		return
	}
	if _, err := uuid.Parse(req.WorkerID); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "worker_id must be a valid UUID")
		return
	}

	task, err := h.taskService.Assign(ctx, taskID, req.WorkerID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleGetTask retrieves a single task.
// @Summary Get task details
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetWorkerFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleAssignedTasks lists the authenticated worker's tasks.
// @Summary List assigned tasks
// @Description Lists the worker's tasks with the status of each preceding flow step, so clients can tell which tasks are startable.
// @Tags tasks
// @Produce json
// @Success 200 {object} dto.AssignedTasksResponse
// @Security BearerAuth
// @Router /tasks/assigned [get]
func (h *Handler) handleAssignedTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	worker, err := middleware.GetWorkerFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	annotated, err := h.taskService.AssignedTasks(ctx, worker.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tasks")
		return
	}

	tasks := make([]dto.TaskResponse, len(annotated))
	for i, a := range annotated {
		tasks[i] = dto.ToAssignedTaskResponse(a)
	}

	respondJSON(w, http.StatusOK, dto.AssignedTasksResponse{
		Tasks: tasks,
		Total: len(tasks),
	})
}
