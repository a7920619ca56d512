package repository

import (
	"context"
	"fmt"
	"strings"

	"support-directory/internal/data/entity"
	"support-directory/pkg/apperr"
	"support-directory/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AdminUserRepository interface {
	FindAll(ctx context.Context, params ListParams) ([]*entity.AdminUser, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AdminUser, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, changes entity.ProfileChanges) (*entity.AdminUser, error)
	Update(ctx context.Context, id uuid.UUID, changes entity.ProfileChanges) (*entity.AdminUser, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

var adminUserSearchFields = []string{"username", "email", "first_name", "last_name"}

var adminUsersView = view{
	name: "admin_users_view",
	columns: `id, username, email, first_name, last_name, role, phone_number, job_title,
		organisation, notes, is_active, last_login, last_sign_in_at, date_joined,
		created_at, updated_at`,
	orderBy: "created_at DESC, id",
}

type adminUserRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAdminUserRepository(db database.PgxIface, log *zap.Logger) AdminUserRepository {
	return &adminUserRepository{
		db:  db,
		log: log,
	}
}

func scanAdminUser(row pgx.Row) (*entity.AdminUser, error) {
	var u entity.AdminUser
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Profile.Role,
		&u.Profile.PhoneNumber,
		&u.Profile.JobTitle,
		&u.Profile.Organisation,
		&u.Profile.Notes,
		&u.IsActive,
		&u.LastLogin,
		&u.LastSignInAt,
		&u.DateJoined,
		&u.Profile.CreatedAt,
		&u.Profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func profileAssignments(c entity.ProfileChanges) *changeSet {
	cs := &changeSet{}
	setPtr(cs, "username", c.Username)
	setPtr(cs, "email", c.Email)
	setPtr(cs, "first_name", c.FirstName)
	setPtr(cs, "last_name", c.LastName)
	setPtr(cs, "role", c.Role)
	setPtr(cs, "is_active", c.IsActive)
	setOptional(cs, "phone_number", c.PhoneNumber)
	setOptional(cs, "job_title", c.JobTitle)
	setOptional(cs, "organisation", c.Organisation)
	setOptional(cs, "notes", c.Notes)
	return cs
}

// FindAll lists admin users, newest first. params.Roles restricts the list to
// a role set.
func (r *adminUserRepository) FindAll(ctx context.Context, params ListParams) ([]*entity.AdminUser, int64, error) {
	if r.db == nil {
		return nil, 0, unconfigured()
	}

	q := NewListQuery().Search(params.Search, adminUserSearchFields...)
	if len(params.Roles) > 0 {
		q.In("role", rolesToStrings(params.Roles))
	}

	users, total, err := findAll(ctx, r.db, adminUsersView, q, params.Window, scanAdminUser)
	if err != nil {
		r.log.Error("Failed to list admin users",
			zap.Error(err),
			zap.Int("page", params.Window.Page),
		)
		return nil, 0, storeError(err, "users")
	}

	return users, total, nil
}

func (r *adminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AdminUser, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	user, err := findByID(ctx, r.db, adminUsersView, id, scanAdminUser)
	if err != nil {
		if err != pgx.ErrNoRows {
			r.log.Error("Failed to find user by ID",
				zap.Error(err),
				zap.String("user_id", id.String()),
			)
		}
		return nil, storeError(err, "user")
	}

	return user, nil
}

// UpsertProfile writes the profile row keyed by an identity id, inserting it
// when the identity has none yet.
func (r *adminUserRepository) UpsertProfile(ctx context.Context, userID uuid.UUID, changes entity.ProfileChanges) (*entity.AdminUser, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	cs := profileAssignments(changes)

	var sb strings.Builder
	sb.WriteString("INSERT INTO admin_profiles (user_id")
	for _, column := range cs.columns {
		sb.WriteString(", " + column)
	}
	sb.WriteString(") VALUES ($1")
	for i := range cs.columns {
		fmt.Fprintf(&sb, ", $%d", i+2)
	}
	sb.WriteString(") ON CONFLICT (user_id) DO UPDATE SET ")
	for _, column := range cs.columns {
		fmt.Fprintf(&sb, "%s = EXCLUDED.%s, ", column, column)
	}
	sb.WriteString("updated_at = NOW()")

	args := append([]any{userID}, cs.values...)
	if _, err := r.db.Exec(ctx, sb.String(), args...); err != nil {
		r.log.Error("Failed to upsert profile",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, storeError(fmt.Errorf("upsert profile %s: %w", userID, err), "user")
	}

	return reread(ctx, "user", userID, r.FindByID)
}

func (r *adminUserRepository) Update(ctx context.Context, id uuid.UUID, changes entity.ProfileChanges) (*entity.AdminUser, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	found, err := updateRow(ctx, r.db, "admin_profiles", "user_id", id, profileAssignments(changes))
	if err != nil {
		r.log.Error("Failed to update profile",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, storeError(fmt.Errorf("update profile %s: %w", id, err), "user")
	}
	if !found {
		return nil, apperr.NotFound("user")
	}

	return reread(ctx, "user", id, r.FindByID)
}

func (r *adminUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return unconfigured()
	}

	query := `UPDATE admin_profiles SET last_login = NOW() WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		r.log.Error("Failed to touch last login",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return storeError(fmt.Errorf("touch last login %s: %w", id, err), "user")
	}

	return nil
}
