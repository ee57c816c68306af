package products

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
	"github.com/alluringfresh/alluring-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type imageRemover interface {
	RemoveImage(ctx context.Context, imageURL string) error
}

// Service exposes catalog reads and the admin mutation surface.
type Service interface {
	List(ctx context.Context, filter ListFilter, cursor string, limit int) (ProductPageDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams groups dependencies for the catalog service. Images and
// Logger are optional; without them deleted listings leave their objects
// behind.
type ServiceParams struct {
	ProductRepo *Repository
	Images      imageRemover
	Logger      *logger.Logger
}

type service struct {
	products *Repository
	images   imageRemover
	logger   *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		products: params.ProductRepo,
		images:   params.Images,
		logger:   params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, cursor string, limit int) (ProductPageDTO, error) {
	if filter.Category != nil && !filter.Category.IsValid() {
		return ProductPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	page, err := s.products.List(ctx, filter, cursor, limit)
	if err != nil {
		return ProductPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error) {
	if err := validateCreate(dto); err != nil {
		return nil, err
	}
	product, err := s.products.Create(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := validateUpdate(dto); err != nil {
		return nil, err
	}
	product, err := s.products.Update(ctx, id, dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}

	// Image cleanup is best effort; the listing is already gone.
	if s.images != nil && product.ImageURL != nil && *product.ImageURL != "" {
		if err := s.images.RemoveImage(ctx, *product.ImageURL); err != nil && s.logger != nil {
			s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "failed to remove product image")
		}
	}
	return nil
}

func validateCreate(dto CreateProductDTO) error {
	if strings.TrimSpace(dto.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !dto.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if dto.Price.IsNegative() || dto.Price.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if dto.StockQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}
	if dto.HealthRating < 1 || dto.HealthRating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "health rating must be between 1 and 5")
	}
	return nil
}

func validateUpdate(dto UpdateProductDTO) error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if dto.Category != nil && !dto.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if dto.Price != nil && (dto.Price.IsNegative() || dto.Price.IsZero()) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if dto.StockQuantity != nil && *dto.StockQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}
	if dto.HealthRating != nil && (*dto.HealthRating < 1 || *dto.HealthRating > 5) {
		return pkgerrors.New(pkgerrors.CodeValidation, "health rating must be between 1 and 5")
	}
	return nil
}
