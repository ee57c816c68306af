package favorites

import (
	"time"

	"github.com/google/uuid"

	"github.com/alluringfresh/alluring-backend/internal/products"
)

// FavoriteDTO pairs a saved product with when it was favorited.
type FavoriteDTO struct {
	ID        uuid.UUID           `json:"id"`
	Product   products.ProductDTO `json:"product"`
	CreatedAt time.Time           `json:"created_at"`
}

// FavoritePageDTO is one cursor page of a user's favorites.
type FavoritePageDTO struct {
	Items      []FavoriteDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
	Total      int64         `json:"total"`
}
