package favorites

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alluringfresh/alluring-backend/internal/products"
	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	"github.com/alluringfresh/alluring-backend/pkg/pagination"
)

// Repository encapsulates favorite persistence. Product summaries are
// hydrated through the catalog repo on the same connection.
type Repository struct {
	db       *gorm.DB
	products *products.Repository
}

// NewRepository constructs a favorites repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, products: products.NewRepository(db)}
}

// Add marks the product as a favorite. Re-favoriting the same product is a
// no-op thanks to the unique (user_id, product_id) pair.
func (r *Repository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	favorite := &models.Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(favorite).Error
}

// Remove unmarks the product. Removing a product that was never favorited
// reports not found.
func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one cursor page of the user's favorites with their products.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (FavoritePageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return FavoritePageDTO{}, err
	}

	query := r.db.WithContext(ctx).Model(&models.Favorite{}).Where("user_id = ?", userID)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Favorite
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return FavoritePageDTO{}, err
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
	if err := r.db.WithContext(ctx).Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return FavoritePageDTO{}, err
	}

	productIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		productIDs = append(productIDs, row.ProductID)
	}

	productsByID, err := r.loadProducts(ctx, productIDs)
	if err != nil {
		return FavoritePageDTO{}, err
	}

	items := make([]FavoriteDTO, 0, len(rows))
	for _, row := range rows {
		product, ok := productsByID[row.ProductID]
		if !ok {
			// Product was deleted after it was favorited. Skip the stale row.
			continue
		}
		items = append(items, FavoriteDTO{
			ID:        row.ID,
			Product:   product,
			CreatedAt: row.CreatedAt,
		})
	}

	return FavoritePageDTO{
		Items:      items,
		NextCursor: nextCursor,
		Total:      total,
	}, nil
}

// ListProductIDs returns every favorited product id for quick membership checks.
func (r *Repository) ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("product_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) loadProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]products.ProductDTO, error) {
	rows, err := r.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]products.ProductDTO, len(rows))
	for i := range rows {
		byID[rows[i].ID] = *products.FromModel(&rows[i])
	}
	return byID, nil
}
