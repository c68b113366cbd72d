package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aaronHenao/backend-tailorflow/internal/handler/dto"
	"github.com/aaronHenao/backend-tailorflow/internal/middleware"
	"github.com/aaronHenao/backend-tailorflow/internal/repository"
	"github.com/aaronHenao/backend-tailorflow/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool           *pgxpool.Pool
	taskService    *service.TaskService
	orderService   *service.OrderService
	taskRepo       *repository.TaskRepository
	workerRepo     *repository.WorkerRepository
	reportRepo     *repository.ReportRepository
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool) *Handler {
	// Create repositories
	taskRepo := repository.NewTaskRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	flowRepo := repository.NewFlowRepository(pool)
	workerRepo := repository.NewWorkerRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	// Create services
	taskService := service.NewTaskService(pool, taskRepo, productRepo, orderRepo, workerRepo)
	orderService := service.NewOrderService(pool, orderRepo, productRepo, taskRepo, flowRepo)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(workerRepo)

	return &Handler{
		pool:           pool,
		taskService:    taskService,
		orderService:   orderService,
		taskRepo:       taskRepo,
		workerRepo:     workerRepo,
		reportRepo:     reportRepo,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// API v1 routes with authentication
	mux.Handle("POST /api/v1/orders", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateOrder)))
	mux.Handle("GET /api/v1/tasks/assigned", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleAssignedTasks)))
	mux.Handle("GET /api/v1/tasks/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleGetTask)))
	mux.Handle("POST /api/v1/tasks/{id}/assign", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleAssignTask)))
	mux.Handle("POST /api/v1/tasks/{id}/start", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleStartTask)))
	mux.Handle("POST /api/v1/tasks/{id}/complete", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCompleteTask)))
	mux.Handle("GET /api/v1/reports/delayed-tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleDelayedTasks)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractTaskID extracts and validates the task ID path parameter.
// Returns (taskID, true) if valid, ("", false) if invalid (error already sent to client).
func extractTaskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	taskID := r.PathValue("id")
	if taskID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id is required")
		return "", false
	}

	if _, err := uuid.Parse(taskID); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id must be a valid UUID")
		return "", false
	}

	return taskID, true
}
