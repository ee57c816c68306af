package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	"github.com/alluringfresh/alluring-backend/pkg/enums"
)

// ProductDTO is the catalog transport shape.
type ProductDTO struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Description   *string               `json:"description,omitempty"`
	Price         decimal.Decimal       `json:"price"`
	Category      enums.ProductCategory `json:"category"`
	StockQuantity int                   `json:"stock_quantity"`
	InStock       bool                  `json:"in_stock"`
	ImageURL      *string               `json:"image_url,omitempty"`
	HealthRating  int                   `json:"health_rating"`
	IsActive      bool                  `json:"is_active"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// ProductPageDTO is one page of catalog results.
type ProductPageDTO struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
	Total      int64        `json:"total"`
}

// ListFilter narrows catalog queries.
type ListFilter struct {
	Category      *enums.ProductCategory
	InStockOnly   bool
	Search        string
	IncludeHidden bool
}

// CreateProductDTO holds the fields required to add a listing.
type CreateProductDTO struct {
	Name          string
	Description   *string
	Price         decimal.Decimal
	Category      enums.ProductCategory
	StockQuantity int
	ImageURL      *string
	HealthRating  int
}

// UpdateProductDTO carries optional listing mutations.
type UpdateProductDTO struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	Category      *enums.ProductCategory
	StockQuantity *int
	ImageURL      *string
	HealthRating  *int
	IsActive      *bool
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		InStock:       p.InStock(),
		ImageURL:      p.ImageURL,
		HealthRating:  p.HealthRating,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (c CreateProductDTO) ToModel() *models.Product {
	return &models.Product{
		Name:          c.Name,
		Description:   c.Description,
		Price:         c.Price,
		Category:      c.Category,
		StockQuantity: c.StockQuantity,
		ImageURL:      c.ImageURL,
		HealthRating:  c.HealthRating,
		IsActive:      true,
	}
}
