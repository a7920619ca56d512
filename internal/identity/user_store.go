package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"support-directory/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserStore persists identity records.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string, metadata map[string]string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, string, error)
	Update(ctx context.Context, id uuid.UUID, email, passwordHash *string, metadata map[string]string) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TouchSignIn(ctx context.Context, id uuid.UUID) error
	EmailByUsername(ctx context.Context, username string) (string, error)
}

const userColumns = "id, email, metadata, last_sign_in_at, created_at, updated_at"

type pgUserStore struct {
	db database.PgxIface
}

func NewUserStore(db database.PgxIface) UserStore {
	return &pgUserStore{db: db}
}

func scanUser(row pgx.Row, extra ...any) (*User, error) {
	var u User
	dest := append([]any{&u.ID, &u.Email, &u.Metadata, &u.LastSignInAt, &u.CreatedAt, &u.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u.Metadata == nil {
		u.Metadata = map[string]string{}
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *pgUserStore) Create(ctx context.Context, email, passwordHash string, metadata map[string]string) (*User, error) {
	if metadata == nil {
		metadata = map[string]string{}
	}

	query := `
		INSERT INTO identity_users (email, password_hash, metadata, email_confirmed_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING ` + userColumns

	user, err := scanUser(s.db.QueryRow(ctx, query, normalizeEmail(email), passwordHash, metadata))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert identity user: %w", err)
	}
	return user, nil
}

func (s *pgUserStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM identity_users WHERE id = $1`
	return scanUser(s.db.QueryRow(ctx, query, id))
}

// FindByEmail also returns the stored password hash.
func (s *pgUserStore) FindByEmail(ctx context.Context, email string) (*User, string, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM identity_users WHERE email = $1`

	var hash string
	user, err := scanUser(s.db.QueryRow(ctx, query, normalizeEmail(email)), &hash)
	if err != nil {
		return nil, "", err
	}
	return user, hash, nil
}

func (s *pgUserStore) Update(ctx context.Context, id uuid.UUID, email, passwordHash *string, metadata map[string]string) (*User, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("UPDATE identity_users SET ")
	if email != nil {
		args = append(args, normalizeEmail(*email))
		fmt.Fprintf(&sb, "email = $%d, ", len(args))
	}
	if passwordHash != nil {
		args = append(args, *passwordHash)
		fmt.Fprintf(&sb, "password_hash = $%d, ", len(args))
	}
	if len(metadata) > 0 {
		args = append(args, metadata)
		fmt.Fprintf(&sb, "metadata = metadata || $%d::jsonb, ", len(args))
	}
	args = append(args, id)
	fmt.Fprintf(&sb, "updated_at = NOW() WHERE id = $%d RETURNING %s", len(args), userColumns)

	user, err := scanUser(s.db.QueryRow(ctx, sb.String(), args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update identity user %s: %w", id, err)
	}
	return user, nil
}

func (s *pgUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM identity_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete identity user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *pgUserStore) TouchSignIn(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `UPDATE identity_users SET last_sign_in_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("touch sign in %s: %w", id, err)
	}
	return nil
}

func (s *pgUserStore) EmailByUsername(ctx context.Context, username string) (string, error) {
	query := `SELECT email FROM identity_users WHERE lower(metadata ->> 'username') = lower($1) LIMIT 1`

	var email string
	if err := s.db.QueryRow(ctx, query, strings.TrimSpace(username)).Scan(&email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup email by username: %w", err)
	}
	return email, nil
}
