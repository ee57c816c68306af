package checkout

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/alluringfresh/alluring-backend/internal/cart"
	"github.com/alluringfresh/alluring-backend/internal/orders"
	"github.com/alluringfresh/alluring-backend/internal/products"
	"github.com/alluringfresh/alluring-backend/internal/profiles"
	"github.com/alluringfresh/alluring-backend/pkg/db/models"
	"github.com/alluringfresh/alluring-backend/pkg/enums"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE profiles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  full_name TEXT NOT NULL DEFAULT '',
  phone TEXT,
  address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type checkoutFixture struct {
	svc     Service
	store   *cart.MemoryStore
	db      *gorm.DB
	userID  uuid.UUID
	mango   *models.Product
	melon   *models.Product
	decimal func(string) decimal.Decimal
}

func setupCheckout(t *testing.T) *checkoutFixture {
	t.Helper()

	db := setupCheckoutTestDB(t)
	store := cart.NewMemoryStore()

	mustDecimal := func(value string) decimal.Decimal {
		d, err := decimal.NewFromString(value)
		require.NoError(t, err)
		return d
	}

	mango := &models.Product{
		ID:            uuid.New(),
		Name:          "Mango Chunks",
		Price:         mustDecimal("3.99"),
		Category:      enums.ProductCategoryCutFruit,
		StockQuantity: 10,
		HealthRating:  5,
		IsActive:      true,
	}
	melon := &models.Product{
		ID:            uuid.New(),
		Name:          "Melon Medley",
		Price:         mustDecimal("2.49"),
		Category:      enums.ProductCategoryFruitBowl,
		StockQuantity: 5,
		HealthRating:  4,
		IsActive:      true,
	}
	require.NoError(t, db.Create(mango).Error)
	require.NoError(t, db.Create(melon).Error)

	svc, err := NewService(ServiceParams{
		Tx:          testTxRunner{db: db},
		CartStore:   store,
		OrderRepo:   orders.NewRepository(db),
		ProductRepo: products.NewRepository(db),
		ProfileRepo: profiles.NewRepository(db),
	})
	require.NoError(t, err)

	return &checkoutFixture{
		svc:     svc,
		store:   store,
		db:      db,
		userID:  uuid.New(),
		mango:   mango,
		melon:   melon,
		decimal: mustDecimal,
	}
}

func (f *checkoutFixture) fillCart(t *testing.T) {
	t.Helper()
	var c cart.Cart
	c.Add(cart.Item{ProductID: f.mango.ID, Name: f.mango.Name, UnitPrice: f.mango.Price}, 2)
	c.Add(cart.Item{ProductID: f.melon.ID, Name: f.melon.Name, UnitPrice: f.melon.Price}, 1)
	require.NoError(t, f.store.Save(context.Background(), f.userID, c))
}

func TestPlaceOrderSuccess(t *testing.T) {
	ctx := context.Background()
	f := setupCheckout(t)
	f.fillCart(t)

	order, err := f.svc.PlaceOrder(ctx, f.userID, PlaceOrderRequest{ShippingAddress: "12 Orchard Lane"})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ORD-\d+-[A-Z0-9]{9}$`), order.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.Subtotal.Equal(f.decimal("10.47")), "subtotal %s", order.Subtotal)
	assert.True(t, order.ShippingFee.Equal(f.decimal("2.99")))
	assert.True(t, order.TotalAmount.Equal(f.decimal("13.46")), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 2)

	var orderCount, itemCount int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, f.db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(1), orderCount)
	assert.Equal(t, int64(2), itemCount)

	// Stock was decremented for each line.
	var mango models.Product
	require.NoError(t, f.db.First(&mango, "id = ?", f.mango.ID).Error)
	assert.Equal(t, 8, mango.StockQuantity)

	// Profile was created lazily.
	var profileCount int64
	require.NoError(t, f.db.Model(&models.Profile{}).Where("user_id = ?", f.userID).Count(&profileCount).Error)
	assert.Equal(t, int64(1), profileCount)

	// Cart is cleared after a committed checkout.
	stored, err := f.store.Load(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, stored.IsEmpty())
}

func TestPlaceOrderRequiresShippingAddress(t *testing.T) {
	f := setupCheckout(t)
	f.fillCart(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderRequest{ShippingAddress: "   "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	f := setupCheckout(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderRequest{ShippingAddress: "12 Orchard Lane"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	f := setupCheckout(t)

	var c cart.Cart
	c.Add(cart.Item{ProductID: f.melon.ID, Name: f.melon.Name, UnitPrice: f.melon.Price}, 6)
	require.NoError(t, f.store.Save(ctx, f.userID, c))

	_, err := f.svc.PlaceOrder(ctx, f.userID, PlaceOrderRequest{ShippingAddress: "12 Orchard Lane"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	// The transaction rolled back: no order rows, stock untouched.
	var orderCount int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)

	var melon models.Product
	require.NoError(t, f.db.First(&melon, "id = ?", f.melon.ID).Error)
	assert.Equal(t, 5, melon.StockQuantity)

	// The cart survives a failed checkout.
	stored, err := f.store.Load(ctx, f.userID)
	require.NoError(t, err)
	assert.False(t, stored.IsEmpty())
}
