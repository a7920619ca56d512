package usecase

import (
	"context"
	"errors"
	"strings"

	"support-directory/internal/data/entity"
	"support-directory/internal/data/repository"
	"support-directory/internal/identity"
	"support-directory/pkg/apperr"
	"support-directory/pkg/utils"

	"go.uber.org/zap"
)

// EnsureInitialSuperAdmin creates or repairs the super admin named in seed.
// Running it again with the same seed changes nothing but the password.
func EnsureInitialSuperAdmin(
	ctx context.Context,
	users repository.AdminUserRepository,
	provider identity.Provider,
	seed utils.SuperAdminConfig,
	log *zap.Logger,
) error {
	s := &userService{
		users:    users,
		identity: provider,
		log:      log.With(zap.String("service", "bootstrap")),
	}
	return s.ensureSuperAdmin(ctx, seed)
}

func (s *userService) ensureSuperAdmin(ctx context.Context, seed utils.SuperAdminConfig) error {
	username := strings.TrimSpace(seed.Username)
	email := strings.TrimSpace(seed.Email)
	if username == "" || email == "" {
		s.log.Warn("Super admin settings not provided, skipping")
		return nil
	}

	metadata := map[string]string{identity.MetaUsername: username}
	created := false

	user, err := s.identity.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, identity.ErrUserNotFound):
		if seed.Password == "" {
			return apperr.New(apperr.CodeConfiguration, "INITIAL_SUPER_ADMIN_PASSWORD must be set for a new account")
		}
		user, err = s.identity.CreateUser(ctx, identity.CreateUserParams{
			Email:    email,
			Password: seed.Password,
			Metadata: metadata,
		})
		if err != nil {
			return identityError(err, "create identity")
		}
		created = true
	case err != nil:
		return identityError(err, "find identity")
	default:
		attrs := identity.UserAttributes{Metadata: metadata}
		if seed.Password != "" {
			attrs.Password = &seed.Password
		}
		if _, err := s.identity.UpdateUserByID(ctx, user.ID, attrs); err != nil {
			return identityError(err, "update identity")
		}
	}

	role := entity.RoleSuperAdmin
	active := true
	_, err = s.users.UpsertProfile(ctx, user.ID, entity.ProfileChanges{
		Username: &username,
		Email:    &user.Email,
		Role:     &role,
		IsActive: &active,
	})
	if err != nil {
		if created {
			return s.compensate(ctx, user.ID, err)
		}
		return apperr.Ensure(err, "upsert super admin profile")
	}

	s.log.Info("Super admin ensured",
		zap.String("user_id", user.ID.String()),
		zap.Bool("created", created),
	)
	return nil
}
