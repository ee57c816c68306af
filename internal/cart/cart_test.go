package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func TestCartAddIncrementsExistingLine(t *testing.T) {
	productID := uuid.New()
	var c Cart

	c.Add(Item{ProductID: productID, Name: "Mango Chunks", UnitPrice: mustDecimal(t, "3.99")}, 1)
	c.Add(Item{ProductID: productID, Name: "Mango Chunks", UnitPrice: mustDecimal(t, "3.99")}, 2)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 3, c.ItemCount())
}

func TestCartAddIgnoresNonPositiveQuantity(t *testing.T) {
	var c Cart
	c.Add(Item{ProductID: uuid.New(), UnitPrice: mustDecimal(t, "1.00")}, 0)
	assert.True(t, c.IsEmpty())
}

func TestCartSetQuantityBelowOneRemovesLine(t *testing.T) {
	productID := uuid.New()
	var c Cart
	c.Add(Item{ProductID: productID, UnitPrice: mustDecimal(t, "2.49")}, 2)

	c.SetQuantity(productID, 0)

	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.Find(productID))
}

func TestCartRemovePreservesOrder(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	third := uuid.New()

	var c Cart
	c.Add(Item{ProductID: first, UnitPrice: mustDecimal(t, "1.00")}, 1)
	c.Add(Item{ProductID: second, UnitPrice: mustDecimal(t, "2.00")}, 1)
	c.Add(Item{ProductID: third, UnitPrice: mustDecimal(t, "3.00")}, 1)

	c.Remove(second)

	require.Len(t, c.Items, 2)
	assert.Equal(t, first, c.Items[0].ProductID)
	assert.Equal(t, third, c.Items[1].ProductID)
}

func TestComputeTotals(t *testing.T) {
	var c Cart
	c.Add(Item{ProductID: uuid.New(), Name: "Mango Chunks", UnitPrice: mustDecimal(t, "3.99")}, 2)
	c.Add(Item{ProductID: uuid.New(), Name: "Melon Medley", UnitPrice: mustDecimal(t, "2.49")}, 1)

	totals := ComputeTotals(c, DefaultShippingFee)

	assert.True(t, totals.Subtotal.Equal(mustDecimal(t, "10.47")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.ShippingFee.Equal(mustDecimal(t, "2.99")))
	assert.True(t, totals.Total.Equal(mustDecimal(t, "13.46")), "total %s", totals.Total)
	assert.Equal(t, 3, totals.ItemCount)
}

func TestComputeTotalsEmptyCartSkipsShipping(t *testing.T) {
	totals := ComputeTotals(Cart{}, DefaultShippingFee)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.ShippingFee.IsZero())
	assert.True(t, totals.Total.IsZero())
	assert.Equal(t, 0, totals.ItemCount)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	userID := uuid.New()

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())

	var c Cart
	c.Add(Item{ProductID: uuid.New(), Name: "Berry Bowl", UnitPrice: mustDecimal(t, "5.99")}, 2)
	require.NoError(t, store.Save(ctx, userID, c))

	loaded, err = store.Load(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)

	// Mutating the loaded copy must not affect the stored snapshot.
	loaded.Items[0].Quantity = 99
	again, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)

	require.NoError(t, store.Clear(ctx, userID))
	loaded, err = store.Load(ctx, userID)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}
