package products

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

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE products (
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
);`).Error)
	return db
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, name string, stock int, active bool, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		Name:          name,
		Price:         decimal.RequireFromString("3.99"),
		Category:      enums.ProductCategoryCutFruit,
		StockQuantity: stock,
		HealthRating:  5,
		IsActive:      active,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestListHidesInactiveByDefault(t *testing.T) {
	ctx := context.Background()
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedCatalogProduct(t, db, "Mango Chunks", 10, true, base)
	seedCatalogProduct(t, db, "Retired Bowl", 10, false, base.Add(time.Hour))

	page, err := repo.List(ctx, ListFilter{}, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Mango Chunks", page.Items[0].Name)
	assert.Equal(t, int64(1), page.Total)

	all, err := repo.List(ctx, ListFilter{IncludeHidden: true}, "", 10)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestListInStockOnly(t *testing.T) {
	ctx := context.Background()
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedCatalogProduct(t, db, "Mango Chunks", 10, true, base)
	seedCatalogProduct(t, db, "Sold Out Medley", 0, true, base.Add(time.Hour))

	page, err := repo.List(ctx, ListFilter{InStockOnly: true}, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Mango Chunks", page.Items[0].Name)
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedCatalogProduct(t, db, "Mango Chunks", 10, true, base)
	seedCatalogProduct(t, db, "Melon Medley", 10, true, base.Add(time.Hour))

	page, err := repo.List(ctx, ListFilter{Search: "mAnGo"}, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Mango Chunks", page.Items[0].Name)
	assert.Equal(t, int64(1), page.Total)
}

func TestFindByIDsLoadsMatchingRows(t *testing.T) {
	ctx := context.Background()
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mango := seedCatalogProduct(t, db, "Mango Chunks", 10, true, base)
	seedCatalogProduct(t, db, "Melon Medley", 10, true, base.Add(time.Hour))

	rows, err := repo.FindByIDs(ctx, []uuid.UUID{mango.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mango.ID, rows[0].ID)

	none, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListPaginates(t *testing.T) {
	ctx := context.Background()
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedCatalogProduct(t, db, "Mango Chunks", 10, true, base.Add(time.Duration(i)*time.Hour))
	}

	page, err := repo.List(ctx, ListFilter{}, "", 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)
	assert.True(t, page.Items[0].CreatedAt.After(page.Items[1].CreatedAt))

	rest, err := repo.List(ctx, ListFilter{}, page.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Empty(t, rest.NextCursor)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	ctx := context.Background()
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	product := seedCatalogProduct(t, db, "Mango Chunks", 10, true, time.Now().UTC())

	newPrice := decimal.RequireFromString("4.49")
	hidden := false
	updated, err := repo.Update(ctx, product.ID, UpdateProductDTO{Price: &newPrice, IsActive: &hidden})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Mango Chunks", updated.Name)
}

func TestUpdateMissingProduct(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))

	name := "Ghost Bowl"
	_, err := repo.Update(context.Background(), uuid.New(), UpdateProductDTO{Name: &name})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDecrementStockGuardsAgainstOverselling(t *testing.T) {
	ctx := context.Background()
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	product := seedCatalogProduct(t, db, "Melon Medley", 5, true, time.Now().UTC())

	require.NoError(t, repo.DecrementStock(ctx, product.ID, 3))

	err := repo.DecrementStock(ctx, product.ID, 3)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var row models.Product
	require.NoError(t, db.First(&row, "id = ?", product.ID).Error)
	assert.Equal(t, 2, row.StockQuantity)
}

func TestDeleteRemovesListing(t *testing.T) {
	ctx := context.Background()
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	product := seedCatalogProduct(t, db, "Mango Chunks", 10, true, time.Now().UTC())

	require.NoError(t, repo.Delete(ctx, product.ID))
	assert.ErrorIs(t, repo.Delete(ctx, product.ID), gorm.ErrRecordNotFound)
}
