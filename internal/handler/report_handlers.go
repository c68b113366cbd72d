package handler

import (
	"net/http"

	"github.com/aaronHenao/backend-tailorflow/internal/handler/dto"
	"github.com/aaronHenao/backend-tailorflow/internal/middleware"
)

// handleDelayedTasks reports tasks that have been in process the longest.
// @Summary Delayed tasks report
// @Description Lists IN_PROCESS and DELAYED tasks with their area, assignee and days in process.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.DelayedTasksResponse
// @Security BearerAuth
// @Router /reports/delayed-tasks [get]
func (h *Handler) handleDelayedTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetWorkerFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	rows, err := h.reportRepo.DelayedTasks(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build report")
		return
	}

	tasks := make([]dto.DelayedTaskResponse, len(rows))
	for i, row := range rows {
		tasks[i] = dto.ToDelayedTaskResponse(row)
	}

	respondJSON(w, http.StatusOK, dto.DelayedTasksResponse{
		Tasks: tasks,
		Total: len(tasks),
	})
}
