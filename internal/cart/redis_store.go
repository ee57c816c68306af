package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	pkgredis "github.com/alluringfresh/alluring-backend/pkg/redis"
)

type snapshotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartSnapshotKey(userID string) string
}

// RedisStore keeps cart snapshots in Redis as JSON under a per-user key.
type RedisStore struct {
	client snapshotStore
	ttl    time.Duration
}

// NewRedisStore builds a snapshot store with the provided TTL.
func NewRedisStore(client *pkgredis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Load returns the stored snapshot, or an empty cart when none exists.
// Whatever the snapshot holds is adopted as-is.
func (s *RedisStore) Load(ctx context.Context, userID uuid.UUID) (Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartSnapshotKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return Cart{}, nil
		}
		return Cart{}, fmt.Errorf("load cart snapshot: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return Cart{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return cart, nil
}

// Save overwrites the snapshot and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, cart Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartSnapshotKey(userID.String()), string(payload), s.ttl); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

// Clear removes the snapshot entirely.
func (s *RedisStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, s.client.CartSnapshotKey(userID.String())); err != nil {
		return fmt.Errorf("clear cart snapshot: %w", err)
	}
	return nil
}
