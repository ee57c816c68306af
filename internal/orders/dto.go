package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	"github.com/alluringfresh/alluring-backend/pkg/enums"
)

// OrderItemDTO is one purchased line as returned to clients.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDTO is the transport shape of an order with its items.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	OrderNumber     string            `json:"order_number"`
	Status          enums.OrderStatus `json:"status"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	ShippingFee     decimal.Decimal   `json:"shipping_fee"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	ShippingAddress string            `json:"shipping_address"`
	ContactPhone    *string           `json:"contact_phone,omitempty"`
	Items           []OrderItemDTO    `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// OrderPageDTO is one cursor page of orders.
type OrderPageDTO struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
	Total      int64      `json:"total"`
}

// StatusCountDTO pairs an order status with how many orders hold it.
type StatusCountDTO struct {
	Status enums.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
}

// StatsDTO summarises the order book for the admin dashboard.
type StatsDTO struct {
	TotalOrders      int64            `json:"total_orders"`
	StatusCounts     []StatusCountDTO `json:"status_counts"`
	CompletedRevenue decimal.Decimal  `json:"completed_revenue"`
}

// ListFilter narrows admin order listings.
type ListFilter struct {
	UserID *uuid.UUID
	Status *enums.OrderStatus
}

// FromModel maps a persisted order onto its DTO.
func FromModel(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for i := range order.Items {
		items = append(items, itemFromModel(&order.Items[i]))
	}
	return &OrderDTO{
		ID:              order.ID,
		UserID:          order.UserID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		Subtotal:        order.Subtotal,
		ShippingFee:     order.ShippingFee,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		ContactPhone:    order.ContactPhone,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func itemFromModel(item *models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
		LineTotal:   item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
}
