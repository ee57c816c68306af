package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/alluringfresh/alluring-backend/pkg/db/models"
)

// ProfileDTO is the transport shape for customer contact details.
type ProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileDTO carries the mutable profile fields.
type UpdateProfileDTO struct {
	FullName *string
	Phone    *string
	Address  *string
}

func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		FullName:  p.FullName,
		Phone:     p.Phone,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
