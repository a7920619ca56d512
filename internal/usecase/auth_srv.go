package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"support-directory/internal/data/entity"
	"support-directory/internal/data/repository"
	"support-directory/internal/dto/request"
	"support-directory/internal/dto/response"
	"support-directory/internal/identity"
	"support-directory/pkg/apperr"
	"support-directory/pkg/metrics"
	"support-directory/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (*response.LoginResponse, error)
	Me(ctx context.Context) (*response.UserResponse, error)
	UpdateOwnProfile(ctx context.Context, req *request.UpdateUserRequest) (*response.UserResponse, error)
}

type authService struct {
	users    repository.AdminUserRepository
	identity identity.Provider
	resolver IdentityResolver
	log      *zap.Logger
}

func NewAuthService(
	users repository.AdminUserRepository,
	provider identity.Provider,
	resolver IdentityResolver,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:    users,
		identity: provider,
		resolver: resolver,
		log:      log.With(zap.String("service", "auth")),
	}
}

// Login accepts an email or a bare username. The session is only handed back
// for active admin-tier accounts; anyone else is signed out again at once.
func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, apperr.Invalid("identifier and password are required")
	}

	email := identifier
	if !strings.Contains(identifier, "@") {
		resolved, err := s.identity.LookupEmailByUsername(ctx, identifier)
		if errors.Is(err, identity.ErrUserNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("unknown_identifier").Inc()
			return nil, apperr.Wrap(err, apperr.CodeUnknownIdentifier, "no account matches that username")
		}
		if err != nil {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
			return nil, apperr.Wrap(err, apperr.CodeBackend, "resolve username")
		}
		email = resolved
	}

	session, err := s.identity.SignInWithPassword(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return nil, apperr.Wrap(err, apperr.CodeBackend, "sign in failed")
	}

	user, err := s.requireAdmin(ctx, session)
	if err != nil {
		return nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("Failed to record last login",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info("Admin signed in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Profile.Role)),
	)

	return loginResponse(user, session), nil
}

// requireAdmin checks the account behind a fresh session and revokes the
// session when the account may not use the admin area.
func (s *authService) requireAdmin(ctx context.Context, session *identity.Session) (*entity.AdminUser, error) {
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil && !apperr.HasCode(err, apperr.CodeNotFound) {
		s.signOut(ctx, session)
		return nil, apperr.Ensure(err, "load profile")
	}

	if user == nil || !user.IsActive || !user.Profile.Role.IsAdminTier() {
		s.signOut(ctx, session)
		metrics.LoginAttemptsTotal.WithLabelValues("forbidden").Inc()
		s.log.Warn("Non-admin sign in rejected", zap.String("user_id", session.UserID.String()))
		return nil, apperr.Forbidden("account is not allowed to use the admin area")
	}

	return user, nil
}

func (s *authService) signOut(ctx context.Context, session *identity.Session) {
	if err := s.identity.SignOut(ctx, session.Token); err != nil {
		s.log.Error("Failed to revoke session",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()),
		)
	}
}

func loginResponse(user *entity.AdminUser, session *identity.Session) *response.LoginResponse {
	return &response.LoginResponse{
		User:      response.UserToResponse(user),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Truncate(time.Second),
	}
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.identity.SignOut(ctx, token); err != nil {
		return apperr.Wrap(err, apperr.CodeBackend, "sign out")
	}
	return nil
}

// Refresh rotates the session token and checks the role again.
func (s *authService) Refresh(ctx context.Context, token string) (*response.LoginResponse, error) {
	session, err := s.identity.RefreshSession(ctx, token)
	if errors.Is(err, identity.ErrSessionNotFound) {
		return nil, apperr.Unauthenticated()
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeBackend, "refresh session")
	}

	user, err := s.requireAdmin(ctx, session)
	if err != nil {
		return nil, err
	}
	return loginResponse(user, session), nil
}

func (s *authService) Me(ctx context.Context) (*response.UserResponse, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, apperr.Unauthenticated()
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Ensure(err, "get current user")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateOwnProfile lets any signed-in admin edit their own account. Only a
// super admin may change their own role.
func (s *authService) UpdateOwnProfile(ctx context.Context, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	actor, err := s.resolver.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperr.Unauthenticated()
	}
	if req.Role != nil && actor.Role != entity.RoleSuperAdmin {
		return nil, apperr.Forbidden("only a super admin may change their own role")
	}
	if req.IsActive != nil {
		return nil, apperr.Invalid("is_active cannot be changed on your own account")
	}

	user, err := updateAccount(ctx, s.identity, s.users, actor.ID, req)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}
