package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
)

type productCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the product review surface.
type Service interface {
	Create(ctx context.Context, userID, productID uuid.UUID, dto CreateReviewDTO) (*ReviewDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, cursor string, limit int) (ReviewPageDTO, error)
}

// ServiceParams groups dependencies for the reviews service.
type ServiceParams struct {
	ReviewRepo *Repository
	Catalog    productCatalog
}

type service struct {
	reviews *Repository
	catalog productCatalog
}

// NewService builds a reviews service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ReviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product catalog is required")
	}
	return &service{
		reviews: params.ReviewRepo,
		catalog: params.Catalog,
	}, nil
}

// Create records a rating. One review per customer per product.
func (s *service) Create(ctx context.Context, userID, productID uuid.UUID, dto CreateReviewDTO) (*ReviewDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if dto.Rating < 1 || dto.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.catalog.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if _, err := s.reviews.FindByUserAndProduct(ctx, userID, productID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    dto.Rating,
		Comment:   dto.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}

	return &ReviewDTO{
		ID:         review.ID,
		ProductID:  review.ProductID,
		UserID:     review.UserID,
		AuthorName: "Anonymous",
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID, cursor string, limit int) (ReviewPageDTO, error) {
	if productID == uuid.Nil {
		return ReviewPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	page, err := s.reviews.ListByProduct(ctx, productID, cursor, limit)
	if err != nil {
		return ReviewPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return page, nil
}
