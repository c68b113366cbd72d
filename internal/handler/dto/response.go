package dto

import (
	"time"

	"github.com/aaronHenao/backend-tailorflow/internal/domain"
	"github.com/aaronHenao/backend-tailorflow/internal/repository"
)

// TaskResponse represents a task. PreviousStatus carries the status of
// the preceding task in the product flow when the task is returned
// from the assigned-tasks listing; it is absent for first steps.
type TaskResponse struct {
	ID             string     `json:"id"`
	ProductID      string     `json:"product_id"`
	AreaID         string     `json:"area_id"`
	WorkerID       *string    `json:"worker_id"`
	Sequence       int        `json:"sequence"`
	Status         string     `json:"status"`
	PreviousStatus *string    `json:"previous_status,omitempty"`
	StartedAt      *time.Time `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// AssignedTasksResponse represents the response for GET /tasks/assigned.
type AssignedTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// ProductResponse represents a product of an order.
type ProductResponse struct {
	ID         string  `json:"id"`
	OrderID    string  `json:"order_id"`
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Fabric     *string `json:"fabric"`
	Status     string  `json:"status"`
}

// OrderResponse represents an order with its products.
type OrderResponse struct {
	ID                    string            `json:"id"`
	CustomerID            string            `json:"customer_id"`
	Status                string            `json:"status"`
	EntryDate             time.Time         `json:"entry_date"`
	EstimatedDeliveryDate *time.Time        `json:"estimated_delivery_date"`
	Products              []ProductResponse `json:"products"`
}

// DelayedTaskResponse is one row of the delayed-tasks report.
type DelayedTaskResponse struct {
	TaskID        string    `json:"task_id"`
	ProductID     string    `json:"product_id"`
	AreaName      string    `json:"area_name"`
	WorkerName    *string   `json:"worker_name"`
	Status        string    `json:"status"`
	StartedAt     time.Time `json:"started_at"`
	DaysInProcess int       `json:"days_in_process"`
}

// DelayedTasksResponse represents the response for GET /reports/delayed-tasks.
type DelayedTasksResponse struct {
	Tasks []DelayedTaskResponse `json:"tasks"`
	Total int                   `json:"total"`
}

// ToTaskResponse converts domain.Task to TaskResponse.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:         task.ID,
		ProductID:  task.ProductID,
		AreaID:     task.AreaID,
		WorkerID:   task.WorkerID,
		Sequence:   task.Sequence,
		Status:     string(task.Status),
		StartedAt:  task.StartedAt,
		FinishedAt: task.FinishedAt,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}
}

// ToAssignedTaskResponse converts an annotated task to TaskResponse.
func ToAssignedTaskResponse(annotated *repository.AssignedTask) TaskResponse {
	response := ToTaskResponse(annotated.Task)
	if annotated.PreviousStatus != nil {
		s := string(*annotated.PreviousStatus)
		response.PreviousStatus = &s
	}
	return response
}

// ToOrderResponse converts an order and its products to OrderResponse.
func ToOrderResponse(order *domain.Order, products []*domain.Product) OrderResponse {
	response := OrderResponse{
		ID:                    order.ID,
		CustomerID:            order.CustomerID,
		Status:                string(order.Status),
		EntryDate:             order.EntryDate,
		EstimatedDeliveryDate: order.EstimatedDeliveryDate,
		Products:              make([]ProductResponse, len(products)),
	}
	for i, product := range products {
		response.Products[i] = ProductResponse{
			ID:         product.ID,
			OrderID:    product.OrderID,
			CategoryID: product.CategoryID,
			Name:       product.Name,
			Fabric:     product.Fabric,
			Status:     string(product.Status),
		}
	}
	return response
}

// ToDelayedTaskResponse converts a report row to DelayedTaskResponse.
func ToDelayedTaskResponse(row *repository.DelayedTaskRow) DelayedTaskResponse {
	return DelayedTaskResponse{
		TaskID:        row.TaskID,
		ProductID:     row.ProductID,
		AreaName:      row.AreaName,
		WorkerName:    row.WorkerName,
		Status:        row.Status,
		StartedAt:     row.StartedAt,
		DaysInProcess: row.DaysInProcess,
	}
}
