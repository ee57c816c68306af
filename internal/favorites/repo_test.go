package favorites

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	"github.com/alluringfresh/alluring-backend/pkg/enums"
)

func setupFavoritesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price TEXT NOT NULL,
  category TEXT NOT NULL,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  health_rating INTEGER NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE favorites (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		Name:          name,
		Price:         decimal.RequireFromString("3.99"),
		Category:      enums.ProductCategoryCutFruit,
		StockQuantity: 5,
		HealthRating:  5,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	product := seedProduct(t, db, "Mango Chunks")
	userID := uuid.New()

	require.NoError(t, repo.Add(ctx, userID, product.ID))
	require.NoError(t, repo.Add(ctx, userID, product.ID))

	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRemoveMissingFavorite(t *testing.T) {
	repo := NewRepository(setupFavoritesTestDB(t))

	err := repo.Remove(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListJoinsProducts(t *testing.T) {
	ctx := context.Background()
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	mango := seedProduct(t, db, "Mango Chunks")
	melon := seedProduct(t, db, "Melon Medley")

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Favorite{ID: uuid.New(), UserID: userID, ProductID: mango.ID, CreatedAt: base}).Error)
	require.NoError(t, db.Create(&models.Favorite{ID: uuid.New(), UserID: userID, ProductID: melon.ID, CreatedAt: base.Add(time.Hour)}).Error)

	page, err := repo.List(ctx, userID, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
	// Newest favorite first.
	assert.Equal(t, "Melon Medley", page.Items[0].Product.Name)
	assert.Equal(t, "Mango Chunks", page.Items[1].Product.Name)
}

func TestListSkipsDeletedProducts(t *testing.T) {
	ctx := context.Background()
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	mango := seedProduct(t, db, "Mango Chunks")
	require.NoError(t, repo.Add(ctx, userID, mango.ID))
	require.NoError(t, db.Delete(&models.Product{}, "id = ?", mango.ID).Error)

	page, err := repo.List(ctx, userID, "", 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestListProductIDs(t *testing.T) {
	ctx := context.Background()
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	mango := seedProduct(t, db, "Mango Chunks")
	require.NoError(t, repo.Add(ctx, userID, mango.ID))

	ids, err := repo.ListProductIDs(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{mango.ID}, ids)

	other, err := repo.ListProductIDs(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
