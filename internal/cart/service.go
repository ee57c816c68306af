package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
)

type productCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// CartDTO is the transport shape returned by every cart operation.
type CartDTO struct {
	Items  []Item `json:"items"`
	Totals Totals `json:"totals"`
}

// Service exposes the cart operations backed by the snapshot store.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store       Store
	Catalog     productCatalog
	ShippingFee decimal.Decimal
}

type service struct {
	store       Store
	catalog     productCatalog
	shippingFee decimal.Decimal
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product catalog is required")
	}
	fee := params.ShippingFee
	if fee.IsZero() {
		fee = DefaultShippingFee
	}
	return &service{
		store:       params.Store,
		catalog:     params.Catalog,
		shippingFee: fee,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	stored, err := s.store.Load(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.toDTO(stored), nil
}

// AddItem snapshots the catalog listing into the cart, bumping quantity
// when the product is already present.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	if product.StockQuantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product is out of stock")
	}

	stored, err := s.store.Load(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	stored.Add(Item{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		ImageURL:  product.ImageURL,
		AddedAt:   time.Now().UTC(),
	}, quantity)

	return s.persist(ctx, userID, stored)
}

// SetQuantity overwrites a line's quantity. A value below one removes the line.
func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	stored, err := s.store.Load(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if stored.Find(productID) == nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	stored.SetQuantity(productID, quantity)
	return s.persist(ctx, userID, stored)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	stored, err := s.store.Load(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	stored.Remove(productID)
	return s.persist(ctx, userID, stored)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.store.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) persist(ctx context.Context, userID uuid.UUID, stored Cart) (CartDTO, error) {
	if stored.IsEmpty() {
		if err := s.store.Clear(ctx, userID); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return s.toDTO(stored), nil
	}
	if err := s.store.Save(ctx, userID, stored); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return s.toDTO(stored), nil
}

func (s *service) toDTO(stored Cart) CartDTO {
	items := stored.Items
	if items == nil {
		items = []Item{}
	}
	return CartDTO{
		Items:  items,
		Totals: ComputeTotals(stored, s.shippingFee),
	}
}
