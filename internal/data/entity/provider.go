package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderUser is the owning account embedded in a provider row.
type ProviderUser struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

type ProviderProfile struct {
	BaseNoDelete
	UserID       *uuid.UUID     `db:"user_id" json:"user_id"`
	User         *ProviderUser  `db:"user" json:"user"`
	DisplayName  string         `db:"display_name" json:"display_name"`
	ContactEmail *string        `db:"contact_email" json:"contact_email"`
	PhoneNumber  *string        `db:"phone_number" json:"phone_number"`
	Website      *string        `db:"website" json:"website"`
	Description  *string        `db:"description" json:"description"`
	Address      *string        `db:"address" json:"address"`
	Status       ProviderStatus `db:"status" json:"status"`
	ReviewedBy   *uuid.UUID     `db:"reviewed_by" json:"reviewed_by"`
	ReviewedAt   *time.Time     `db:"reviewed_at" json:"reviewed_at"`
}

type ProviderChanges struct {
	UserID       Optional[uuid.UUID]
	DisplayName  *string
	ContactEmail Optional[string]
	PhoneNumber  Optional[string]
	Website      Optional[string]
	Description  Optional[string]
	Address      Optional[string]
	Status       *ProviderStatus
	ReviewedBy   Optional[uuid.UUID]
	ReviewedAt   Optional[time.Time]
}
