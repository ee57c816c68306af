package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	"github.com/alluringfresh/alluring-backend/pkg/enums"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
)

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter, cursor string, limit int) (OrderPageDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
	CompletedRevenue(ctx context.Context) (decimal.Decimal, error)
}

// Service exposes order history reads and the admin fulfilment surface.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (OrderPageDTO, error)
	Get(ctx context.Context, userID uuid.UUID, role enums.Role, orderID uuid.UUID) (*OrderDTO, error)
	AdminList(ctx context.Context, filter ListFilter, cursor string, limit int) (OrderPageDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	Stats(ctx context.Context) (StatsDTO, error)
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	OrderRepo orderRepository
}

type service struct {
	orders orderRepository
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	return &service{orders: params.OrderRepo}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (OrderPageDTO, error) {
	if userID == uuid.Nil {
		return OrderPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	page, err := s.orders.List(ctx, ListFilter{UserID: &userID}, cursor, limit)
	if err != nil {
		return OrderPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return page, nil
}

// Get returns the order when the caller owns it or holds the admin role.
func (s *service) Get(ctx context.Context, userID uuid.UUID, role enums.Role, orderID uuid.UUID) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID && role != enums.RoleAdmin {
		// Hide the order's existence from non-owners.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return FromModel(order), nil
}

func (s *service) AdminList(ctx context.Context, filter ListFilter, cursor string, limit int) (OrderPageDTO, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return OrderPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	page, err := s.orders.List(ctx, filter, cursor, limit)
	if err != nil {
		return OrderPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return page, nil
}

// UpdateStatus moves an order through fulfilment. Completed and cancelled
// orders are terminal and refuse further transitions.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Status == status {
		return FromModel(order), nil
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is already %s", order.Status),
		)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	order.Status = status
	return FromModel(order), nil
}

func (s *service) Stats(ctx context.Context) (StatsDTO, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}
	revenue, err := s.orders.CompletedRevenue(ctx)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum completed revenue")
	}
	return BuildStats(counts, revenue), nil
}
