package dto

import "time"

// CreateProductRequest is one product of an incoming order.
type CreateProductRequest struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Fabric     *string `json:"fabric,omitempty"`
}

// CreateOrderRequest represents the request body for POST /orders.
type CreateOrderRequest struct {
	CustomerID            string                 `json:"customer_id"`
	EstimatedDeliveryDate *time.Time             `json:"estimated_delivery_date,omitempty"`
	Products              []CreateProductRequest `json:"products"`
}

// AssignTaskRequest represents the request body for POST /tasks/:id/assign.
type AssignTaskRequest struct {
	WorkerID string `json:"worker_id"`
}
