// Package identity is the credential and session provider behind the admin
// surface. Accounts live in Postgres with bcrypt hashes, sessions live in
// Redis, and bearer tokens are HS256 JWTs whose jti names the session.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrEmailTaken         = errors.New("email already registered")
)

// Metadata keys echoed from the profile into the identity record.
const (
	MetaUsername  = "username"
	MetaFirstName = "first_name"
	MetaLastName  = "last_name"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Metadata     map[string]string
	LastSignInAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateUserParams struct {
	Email    string
	Password string
	Metadata map[string]string
}

// UserAttributes is a sparse identity update. Metadata keys are merged into
// the stored metadata.
type UserAttributes struct {
	Email    *string
	Password *string
	Metadata map[string]string
}

type Session struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Provider interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
	UpdateUserByID(ctx context.Context, id uuid.UUID, attrs UserAttributes) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*Session, error)
	RefreshSession(ctx context.Context, token string) (*Session, error)
	// LookupEmailByUsername is privileged: it reads across all accounts.
	LookupEmailByUsername(ctx context.Context, username string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}
