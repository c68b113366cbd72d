package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaronHenao/backend-tailorflow/internal/domain"
	"github.com/aaronHenao/backend-tailorflow/internal/repository"
)

// ProductIntake describes one product of an incoming order.
type ProductIntake struct {
	CategoryID string
	Name       string
	Fabric     *string
}

// CreateOrderParams holds the input for order intake.
type CreateOrderParams struct {
	CustomerID            string
	EstimatedDeliveryDate *time.Time
	Products              []ProductIntake
}

// OrderService handles order intake: creating an order with its
// products and provisioning one PENDING, unassigned task per step of
// each product's category flow, with sequences as defined by the flow.
type OrderService struct {
	pool        *pgxpool.Pool
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
	taskRepo    *repository.TaskRepository
	flowRepo    *repository.FlowRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	pool *pgxpool.Pool,
	orderRepo *repository.OrderRepository,
	productRepo *repository.ProductRepository,
	taskRepo *repository.TaskRepository,
	flowRepo *repository.FlowRepository,
) *OrderService {
	return &OrderService{
		pool:        pool,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		taskRepo:    taskRepo,
		flowRepo:    flowRepo,
	}
}

// CreateOrder creates the order, its products and their tasks in one
// transaction. Everything starts PENDING; a category without flow
// steps aborts the whole intake with ErrNoFlowDefined.
func (s *OrderService) CreateOrder(ctx context.Context, params CreateOrderParams) (*domain.Order, []*domain.Product, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	order := &domain.Order{
		CustomerID:            params.CustomerID,
		Status:                domain.StatusPending,
		EstimatedDeliveryDate: params.EstimatedDeliveryDate,
	}
	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, nil, err
	}

	products := make([]*domain.Product, 0, len(params.Products))
	taskCount := 0
	for _, intake := range params.Products {
		flows, err := s.flowRepo.ListByCategory(ctx, tx, intake.CategoryID)
		if err != nil {
			return nil, nil, err
		}
		if len(flows) == 0 {
			return nil, nil, fmt.Errorf("%w: category %s", domain.ErrNoFlowDefined, intake.CategoryID)
		}

		product := &domain.Product{
			OrderID:    order.ID,
			CategoryID: intake.CategoryID,
			Name:       intake.Name,
			Fabric:     intake.Fabric,
			Status:     domain.StatusPending,
		}
		if err := s.productRepo.Create(ctx, tx, product); err != nil {
			return nil, nil, err
		}
		products = append(products, product)

		for _, flow := range flows {
			task := &domain.Task{
				ProductID: product.ID,
				AreaID:    flow.AreaID,
				Sequence:  flow.Sequence,
				Status:    domain.StatusPending,
			}
			if err := s.taskRepo.Create(ctx, tx, task); err != nil {
				return nil, nil, err
			}
			taskCount++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("order created",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"products", len(products),
		"tasks", taskCount,
	)

	return order, products, nil
}
