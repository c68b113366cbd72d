package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aaronHenao/backend-tailorflow/internal/domain"
	"github.com/aaronHenao/backend-tailorflow/internal/repository"
)

type contextKey string

const (
	// ContextKeyWorker is the key for storing the worker in request context.
	ContextKeyWorker contextKey = "worker"
)

// AuthMiddleware handles Bearer token authentication for workers.
type AuthMiddleware struct {
	workerRepo *repository.WorkerRepository
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(workerRepo *repository.WorkerRepository) *AuthMiddleware {
	return &AuthMiddleware{
		workerRepo: workerRepo,
	}
}

// Authenticate validates the Bearer token and adds the worker to the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		worker, err := m.workerRepo.GetByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrWorkerNotFound) {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if !worker.IsActive {
			http.Error(w, "worker inactive", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyWorker, worker)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetWorkerFromContext retrieves the authenticated worker from request context.
func GetWorkerFromContext(ctx context.Context) (*domain.Worker, error) {
	worker, ok := ctx.Value(ContextKeyWorker).(*domain.Worker)
	if !ok || worker == nil {
		return nil, domain.ErrWorkerNotFound
	}
	return worker, nil
}
