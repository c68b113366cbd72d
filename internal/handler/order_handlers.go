package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aaronHenao/backend-tailorflow/internal/handler/dto"
	"github.com/aaronHenao/backend-tailorflow/internal/middleware"
	"github.com/aaronHenao/backend-tailorflow/internal/service"
	"github.com/google/uuid"
)

// handleCreateOrder registers an order and provisions its products and tasks.
// @Summary Create an order
// @Description Creates an order with its products. Every product gets one PENDING task per step of its category flow.
// @Tags orders
// @Accept json
// @Produce json
// @Param request body dto.CreateOrderRequest true "Order creation request"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /orders [post]
func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetWorkerFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.CustomerID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "customer_id is required")
		return
	}
	if _, err := uuid.Parse(req.CustomerID); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "customer_id must be a valid UUID")
		return
	}
	if len(req.Products) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "at least one product is required")
		return
	}

	intakes := make([]service.ProductIntake, len(req.Products))
	for i, p := range req.Products {
		if p.Name == "" {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "product name is required")
			return
		}
		if _, err := uuid.Parse(p.CategoryID); err != nil {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "category_id must be a valid UUID")
			return
		}
		intakes[i] = service.ProductIntake{
			CategoryID: p.CategoryID,
			Name:       p.Name,
			Fabric:     p.Fabric,
		}
	}

	order, products, err := h.orderService.CreateOrder(ctx, service.CreateOrderParams{
		CustomerID:            req.CustomerID,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		Products:              intakes,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToOrderResponse(order, products))
}
