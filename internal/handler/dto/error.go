package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aaronHenao/backend-tailorflow/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Not found
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", message
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "ORDER_NOT_FOUND", message
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "PRODUCT_NOT_FOUND", message
	case errors.Is(err, domain.ErrWorkerNotFound):
		return http.StatusNotFound, "WORKER_NOT_FOUND", message

	// Forbidden
	case errors.Is(err, domain.ErrNotAssignee):
		return http.StatusForbidden, "NOT_ASSIGNEE", message

	// Conflict: the target state is already reached, safe to treat as
	// an idempotent-retry signal.
	case errors.Is(err, domain.ErrTaskAlreadyStarted):
		return http.StatusConflict, "TASK_ALREADY_STARTED", message
	case errors.Is(err, domain.ErrTaskAlreadyFinished):
		return http.StatusConflict, "TASK_ALREADY_FINISHED", message
	case errors.Is(err, domain.ErrTaskAlreadyAssigned):
		return http.StatusConflict, "TASK_ALREADY_ASSIGNED", message

	// Hard transition failures
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", message
	case errors.Is(err, domain.ErrDependencyUnmet):
		return http.StatusConflict, "DEPENDENCY_UNMET", message

	// Provisioning bug, not a user error
	case errors.Is(err, domain.ErrFlowIntegrity):
		return http.StatusInternalServerError, "FLOW_INTEGRITY", message

	// Validation
	case errors.Is(err, domain.ErrNoFlowDefined):
		return http.StatusUnprocessableEntity, "NO_FLOW_DEFINED", message
	case errors.Is(err, domain.ErrWorkerInactive):
		return http.StatusUnprocessableEntity, "WORKER_INACTIVE", message

	// Auth
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN", message

	// Transient: the whole transition was rolled back, caller may retry
	case errors.Is(err, domain.ErrTransient):
		return http.StatusServiceUnavailable, "RETRY_LATER", message

	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
