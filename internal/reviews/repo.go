package reviews

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	"github.com/alluringfresh/alluring-backend/pkg/pagination"
)

// Repository encapsulates review persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reviews repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a review and returns the persisted row.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByUserAndProduct loads the caller's existing review of a product.
func (r *Repository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByProduct returns one cursor page of a product's reviews, newest first,
// with each author's display name joined in from their profile.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID, cursor string, limit int) (ReviewPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return ReviewPageDTO{}, err
	}

	type row struct {
		models.Review
		FullName *string
	}

	query := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("reviews.*, profiles.full_name").
		Joins("LEFT JOIN profiles ON profiles.user_id = reviews.user_id").
		Where("reviews.product_id = ?", productID)

	if decodedCursor != nil {
		query = query.Where("(reviews.created_at < ?) OR (reviews.created_at = ? AND reviews.id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []row
	if err := query.Order("reviews.created_at DESC").Order("reviews.id DESC").Limit(limitWithBuffer).Scan(&rows).Error; err != nil {
		return ReviewPageDTO{}, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("product_id = ?", productID).Count(&total).Error; err != nil {
		return ReviewPageDTO{}, err
	}

	average, err := r.averageRating(ctx, productID)
	if err != nil {
		return ReviewPageDTO{}, err
	}

	items := make([]ReviewDTO, 0, len(rows))
	for _, entry := range rows {
		author := "Anonymous"
		if entry.FullName != nil && strings.TrimSpace(*entry.FullName) != "" {
			author = *entry.FullName
		}
		items = append(items, ReviewDTO{
			ID:         entry.ID,
			ProductID:  entry.ProductID,
			UserID:     entry.UserID,
			AuthorName: author,
			Rating:     entry.Rating,
			Comment:    entry.Comment,
			CreatedAt:  entry.CreatedAt,
		})
	}

	return ReviewPageDTO{
		Items:         items,
		NextCursor:    nextCursor,
		Total:         total,
		AverageRating: average,
	}, nil
}

func (r *Repository) averageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	var average *float64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(rating)").
		Where("product_id = ?", productID).
		Scan(&average).Error; err != nil {
		return 0, err
	}
	if average == nil {
		return 0, nil
	}
	return *average, nil
}
