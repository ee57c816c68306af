package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotStore struct {
	values  map[string]string
	lastTTL time.Duration
	getErr  error
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{values: map[string]string{}}
}

func (f *fakeSnapshotStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	f.lastTTL = ttl
	return nil
}

func (f *fakeSnapshotStore) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeSnapshotStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeSnapshotStore) CartSnapshotKey(userID string) string {
	return "alluring:cart:" + userID
}

func TestRedisStoreRoundTripsSnapshot(t *testing.T) {
	ctx := context.Background()
	fake := newFakeSnapshotStore()
	store := &RedisStore{client: fake, ttl: time.Hour}
	userID := uuid.New()

	imageURL := "https://storage.googleapis.com/bucket/products/mango.jpg"
	saved := Cart{Items: []Item{
		{
			ProductID: uuid.New(),
			Name:      "Mango Chunks",
			UnitPrice: decimal.RequireFromString("3.99"),
			Quantity:  2,
			ImageURL:  &imageURL,
			AddedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ProductID: uuid.New(),
			Name:      "Pineapple Spears",
			UnitPrice: decimal.RequireFromString("2.49"),
			Quantity:  1,
			AddedAt:   time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC),
		},
	}}

	require.NoError(t, store.Save(ctx, userID, saved))
	assert.Equal(t, time.Hour, fake.lastTTL)

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)

	for i, item := range loaded.Items {
		assert.Equal(t, saved.Items[i].ProductID, item.ProductID)
		assert.Equal(t, saved.Items[i].Name, item.Name)
		assert.True(t, saved.Items[i].UnitPrice.Equal(item.UnitPrice))
		assert.Equal(t, saved.Items[i].Quantity, item.Quantity)
		assert.True(t, saved.Items[i].AddedAt.Equal(item.AddedAt))
	}
	require.NotNil(t, loaded.Items[0].ImageURL)
	assert.Equal(t, imageURL, *loaded.Items[0].ImageURL)
	assert.True(t, Subtotal(saved.Items).Equal(Subtotal(loaded.Items)))
}

func TestRedisStoreLoadMissingSnapshot(t *testing.T) {
	store := &RedisStore{client: newFakeSnapshotStore(), ttl: time.Hour}

	cart, err := store.Load(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestRedisStoreLoadCorruptSnapshot(t *testing.T) {
	fake := newFakeSnapshotStore()
	store := &RedisStore{client: fake, ttl: time.Hour}
	userID := uuid.New()
	fake.values[fake.CartSnapshotKey(userID.String())] = "{not json"

	_, err := store.Load(context.Background(), userID)
	require.Error(t, err)
}

func TestRedisStoreClearDeletesKey(t *testing.T) {
	ctx := context.Background()
	fake := newFakeSnapshotStore()
	store := &RedisStore{client: fake, ttl: time.Hour}
	userID := uuid.New()

	require.NoError(t, store.Save(ctx, userID, Cart{Items: []Item{{
		ProductID: uuid.New(),
		Name:      "Mango Chunks",
		UnitPrice: decimal.RequireFromString("3.99"),
		Quantity:  1,
	}}}))
	require.NoError(t, store.Clear(ctx, userID))

	cart, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Empty(t, fake.values)
}
