package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local tooling.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]Cart
}

// NewMemoryStore builds an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[uuid.UUID]Cart)}
}

func (s *MemoryStore) Load(_ context.Context, userID uuid.UUID) (Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.carts[userID]
	if !ok {
		return Cart{}, nil
	}
	return cloneCart(stored), nil
}

func (s *MemoryStore) Save(_ context.Context, userID uuid.UUID, cart Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = cloneCart(cart)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

func cloneCart(c Cart) Cart {
	if len(c.Items) == 0 {
		return Cart{}
	}
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
