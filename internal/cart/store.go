package cart

import (
	"context"

	"github.com/google/uuid"
)

// Store persists per-user cart snapshots. A load for a user with no
// snapshot returns an empty cart, never an error.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (Cart, error)
	Save(ctx context.Context, userID uuid.UUID, cart Cart) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
