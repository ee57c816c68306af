package orders

import (
	"context"
	"fmt"
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

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  order_number TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal TEXT NOT NULL,
  shipping_fee TEXT NOT NULL,
  total_amount TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  contact_phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedOrder(t *testing.T, repo *Repository, userID uuid.UUID, status enums.OrderStatus, total string, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		OrderNumber:     fmt.Sprintf("ORD-%d-%s", createdAt.UnixMilli(), uuid.NewString()[:9]),
		Status:          status,
		Subtotal:        decimal.RequireFromString(total),
		ShippingFee:     decimal.Zero,
		TotalAmount:     decimal.RequireFromString(total),
		ShippingAddress: "12 Orchard Lane",
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), order))
	require.NoError(t, repo.CreateItems(context.Background(), []models.OrderItem{{
		OrderID:     order.ID,
		ProductID:   uuid.New(),
		ProductName: "Mango Chunks",
		UnitPrice:   decimal.RequireFromString(total),
		Quantity:    1,
	}}))
	return order
}

func TestListPaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))
	userID := uuid.New()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedOrder(t, repo, userID, enums.OrderStatusPending, "5.00", base.Add(time.Duration(i)*time.Hour))
	}

	page, err := repo.List(ctx, ListFilter{UserID: &userID}, "", 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.NotEmpty(t, page.NextCursor)
	assert.Equal(t, int64(3), page.Total)
	assert.True(t, page.Items[0].CreatedAt.After(page.Items[1].CreatedAt))
	require.Len(t, page.Items[0].Items, 1)

	rest, err := repo.List(ctx, ListFilter{UserID: &userID}, page.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Empty(t, rest.NextCursor)
}

func TestListFiltersByUserAndStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))
	alice := uuid.New()
	bob := uuid.New()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedOrder(t, repo, alice, enums.OrderStatusPending, "5.00", base)
	seedOrder(t, repo, alice, enums.OrderStatusCompleted, "7.00", base.Add(time.Hour))
	seedOrder(t, repo, bob, enums.OrderStatusPending, "9.00", base.Add(2*time.Hour))

	page, err := repo.List(ctx, ListFilter{UserID: &alice}, "", 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	completed := enums.OrderStatusCompleted
	page, err = repo.List(ctx, ListFilter{Status: &completed}, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, alice, page.Items[0].UserID)
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))

	err := repo.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusProcessing)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAggregates(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))
	userID := uuid.New()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedOrder(t, repo, userID, enums.OrderStatusPending, "5.00", base)
	seedOrder(t, repo, userID, enums.OrderStatusCompleted, "13.46", base.Add(time.Hour))
	seedOrder(t, repo, userID, enums.OrderStatusCompleted, "13.46", base.Add(2*time.Hour))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[enums.OrderStatusPending])
	assert.Equal(t, int64(2), counts[enums.OrderStatusCompleted])

	revenue, err := repo.CompletedRevenue(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.RequireFromString("26.92")), "revenue %s", revenue)
}

func TestCompletedRevenueEmptyBook(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))

	revenue, err := repo.CompletedRevenue(context.Background())
	require.NoError(t, err)
	assert.True(t, revenue.IsZero())
}
