package checkout

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alluringfresh/alluring-backend/internal/cart"
	"github.com/alluringfresh/alluring-backend/internal/orders"
	"github.com/alluringfresh/alluring-backend/internal/products"
	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	"github.com/alluringfresh/alluring-backend/pkg/enums"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
	"github.com/alluringfresh/alluring-backend/pkg/logger"
)

const orderTokenLength = 9

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type profileEnsurer interface {
	Ensure(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// PlaceOrderRequest carries the checkout form.
type PlaceOrderRequest struct {
	ShippingAddress string  `json:"shipping_address"`
	ContactPhone    *string `json:"contact_phone,omitempty"`
}

// Service turns the caller's cart into a placed order.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*orders.OrderDTO, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Tx          txRunner
	CartStore   cart.Store
	OrderRepo   *orders.Repository
	ProductRepo *products.Repository
	ProfileRepo profileEnsurer
	ShippingFee decimal.Decimal
	Logger      *logger.Logger
}

type service struct {
	tx          txRunner
	cartStore   cart.Store
	orders      *orders.Repository
	products    *products.Repository
	profiles    profileEnsurer
	shippingFee decimal.Decimal
	logger      *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.CartStore == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.ProfileRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	fee := params.ShippingFee
	if fee.IsZero() {
		fee = cart.DefaultShippingFee
	}
	return &service{
		tx:          params.Tx,
		cartStore:   params.CartStore,
		orders:      params.OrderRepo,
		products:    params.ProductRepo,
		profiles:    params.ProfileRepo,
		shippingFee: fee,
		logger:      params.Logger,
	}, nil
}

// PlaceOrder snapshots the cart into an order and its line items inside one
// transaction, then clears the cart. A failed checkout leaves the cart intact.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*orders.OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	stored, err := s.cartStore.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if stored.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	// The profile row is created lazily outside the order transaction so a
	// rolled-back checkout never undoes it.
	if _, err := s.profiles.Ensure(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure profile")
	}

	totals := cart.ComputeTotals(stored, s.shippingFee)

	order := &models.Order{
		UserID:          userID,
		OrderNumber:     generateOrderNumber(),
		Status:          enums.OrderStatusPending,
		Subtotal:        totals.Subtotal,
		ShippingFee:     totals.ShippingFee,
		TotalAmount:     totals.Total,
		ShippingAddress: address,
		ContactPhone:    req.ContactPhone,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orders.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, 0, len(stored.Items))
		for _, line := range stored.Items {
			if err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(
						pkgerrors.CodeStateConflict,
						fmt.Sprintf("insufficient stock for %s", line.Name),
					)
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			items = append(items, models.OrderItem{
				OrderID:     order.ID,
				ProductID:   line.ProductID,
				ProductName: line.Name,
				UnitPrice:   line.UnitPrice,
				Quantity:    line.Quantity,
			})
		}

		if err := orderRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The order is committed at this point. A failed cart clear is logged and
	// swallowed so the customer still sees their confirmation.
	if err := s.cartStore.Clear(ctx, userID); err != nil && s.logger != nil {
		logCtx := s.logger.WithOrderID(ctx, order.ID.String())
		s.logger.Warn(s.logger.WithField(logCtx, "error", err.Error()), "failed to clear cart after checkout")
	}

	return orders.FromModel(order), nil
}

// generateOrderNumber builds a human-quotable reference like
// ORD-1767261600123-K7Q2M4X9A.
func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), randomOrderToken())
}

func randomOrderToken() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to a time-derived token rather than failing checkout.
		return strings.ToUpper(fmt.Sprintf("%09X", time.Now().UnixNano()&0xFFFFFFFFF))
	}
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	return strings.ToUpper(encoded[:orderTokenLength])
}
