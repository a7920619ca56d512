package entity

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is the joined admin_users_view row: profile columns plus the
// identity store's last sign-in.
type AdminUser struct {
	ID           uuid.UUID  `db:"id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	IsActive     bool       `db:"is_active"`
	DateJoined   time.Time  `db:"date_joined"`
	LastLogin    *time.Time `db:"last_login"`
	LastSignInAt *time.Time `db:"last_sign_in_at"`
	Profile      Profile
}

type Profile struct {
	Role         Role      `db:"role"`
	PhoneNumber  *string   `db:"phone_number"`
	JobTitle     *string   `db:"job_title"`
	Organisation *string   `db:"organisation"`
	Notes        *string   `db:"notes"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ProfileChanges is a sparse write to admin_profiles.
type ProfileChanges struct {
	Username     *string
	Email        *string
	FirstName    *string
	LastName     *string
	Role         *Role
	IsActive     *bool
	PhoneNumber  Optional[string]
	JobTitle     Optional[string]
	Organisation Optional[string]
	Notes        Optional[string]
}

func (c ProfileChanges) Empty() bool {
	return c.Username == nil && c.Email == nil && c.FirstName == nil && c.LastName == nil &&
		c.Role == nil && c.IsActive == nil &&
		!c.PhoneNumber.Set && !c.JobTitle.Set && !c.Organisation.Set && !c.Notes.Set
}
