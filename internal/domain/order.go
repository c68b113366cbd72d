package domain

import "time"

// Order is a customer order. Its status is an aggregate over its
// products' statuses, one level above the product aggregation.
type Order struct {
	ID                    string
	CustomerID            string
	Status                Status
	EntryDate             time.Time
	EstimatedDeliveryDate *time.Time
}
