package domain

import "time"

// Product is one garment of an order. Its status is an aggregate over
// its tasks' statuses and is only ever written by the cascade, with
// the exception of an externally stamped DELAYED.
type Product struct {
	ID         string
	OrderID    string
	CategoryID string
	Name       string
	Fabric     *string
	Status     Status
	CreatedAt  time.Time
}
