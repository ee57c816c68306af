package reviews

import (
	"time"

	"github.com/google/uuid"
)

// ReviewDTO is a product review as shown on a listing page.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	UserID     uuid.UUID `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewPageDTO is one cursor page of a product's reviews.
type ReviewPageDTO struct {
	Items         []ReviewDTO `json:"items"`
	NextCursor    string      `json:"next_cursor,omitempty"`
	Total         int64       `json:"total"`
	AverageRating float64     `json:"average_rating"`
}

// CreateReviewDTO holds the fields a customer submits.
type CreateReviewDTO struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}
