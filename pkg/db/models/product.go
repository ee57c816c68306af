package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alluringfresh/alluring-backend/pkg/enums"
)

// Product represents the canonical catalog listing.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string                `gorm:"column:name;not null"`
	Description   *string               `gorm:"column:description"`
	Price         decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Category      enums.ProductCategory `gorm:"column:category;type:text;not null"`
	StockQuantity int                   `gorm:"column:stock_quantity;not null;default:0"`
	ImageURL      *string               `gorm:"column:image_url"`
	HealthRating  int                   `gorm:"column:health_rating;not null;default:5"`
	IsActive      bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// InStock reports whether the listing has inventory left to sell.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}
