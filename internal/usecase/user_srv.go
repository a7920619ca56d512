package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"support-directory/internal/data/entity"
	"support-directory/internal/data/repository"
	"support-directory/internal/dto/request"
	"support-directory/internal/dto/response"
	"support-directory/internal/identity"
	"support-directory/internal/policy"
	"support-directory/pkg/apperr"
	"support-directory/pkg/metrics"
	"support-directory/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService provisions admin accounts across the identity store and the
// profile store.
type UserService interface {
	ListUsers(ctx context.Context, req *request.ListRequest) (*response.Paginated[response.UserResponse], error)
	CreateAccount(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
	UpdateAccount(ctx context.Context, userID string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type userService struct {
	users    repository.AdminUserRepository
	identity identity.Provider
	resolver IdentityResolver
	log      *zap.Logger
}

func NewUserService(
	users repository.AdminUserRepository,
	provider identity.Provider,
	resolver IdentityResolver,
	log *zap.Logger,
) UserService {
	return &userService{
		users:    users,
		identity: provider,
		resolver: resolver,
		log:      log.With(zap.String("service", "user")),
	}
}

// identityError classifies a failure reported by the identity service.
func identityError(err error, message string) error {
	switch {
	case errors.Is(err, identity.ErrUserNotFound):
		return apperr.Wrap(err, apperr.CodeNotFound, "user not found")
	case errors.Is(err, identity.ErrEmailTaken):
		return apperr.Wrap(err, apperr.CodeValidation, "email already exists")
	}
	return apperr.Wrap(err, apperr.CodeBackend, message)
}

func (s *userService) ListUsers(ctx context.Context, req *request.ListRequest) (*response.Paginated[response.UserResponse], error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	params := repository.ListParams{
		Search: req.Search,
		Window: utils.BuildPagination(req.Page, req.PageSize),
	}
	if req.AdminsOnly {
		params.Roles = entity.AdminTierRoles
	}

	users, total, err := s.users.FindAll(ctx, params)
	if err != nil {
		return nil, apperr.Ensure(err, "list users")
	}

	return response.NewPaginated(response.MapAll(users, response.UserToResponse), params.Window, total), nil
}

// CreateAccount writes the identity record, then the profile row. When the
// profile write fails the identity record is deleted again, so the caller
// gets one error and, unless the delete fails too, no orphan.
func (s *userService) CreateAccount(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	actor, err := authorize(ctx, s.resolver, policy.ActionCreate, policy.ResourceAdminUser)
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	role := entity.Role(req.Role)
	if !policy.CanAssignRole(actor.Role, role) {
		return nil, apperr.Newf(apperr.CodeAuthorization, "role %s may not grant %s", actor.Role, role)
	}

	username := strings.TrimSpace(req.Username)
	created, err := s.identity.CreateUser(ctx, identity.CreateUserParams{
		Email:    req.Email,
		Password: req.Password,
		Metadata: map[string]string{
			identity.MetaUsername:  username,
			identity.MetaFirstName: req.FirstName,
			identity.MetaLastName:  req.LastName,
		},
	})
	if err != nil {
		return nil, identityError(err, "create identity")
	}

	active := true
	user, err := s.users.UpsertProfile(ctx, created.ID, entity.ProfileChanges{
		Username:     &username,
		Email:        &created.Email,
		FirstName:    &req.FirstName,
		LastName:     &req.LastName,
		Role:         &role,
		IsActive:     &active,
		PhoneNumber:  entity.FromPtr(req.PhoneNumber),
		JobTitle:     entity.FromPtr(req.JobTitle),
		Organisation: entity.FromPtr(req.Organisation),
		Notes:        entity.FromPtr(req.Notes),
	})
	if err != nil {
		return nil, s.compensate(ctx, created.ID, err)
	}

	s.log.Info("Account created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
		zap.String("actor_id", actor.ID.String()),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func canManage(actor *entity.Actor, target entity.Role) error {
	if !policy.CanManageAccount(actor.Role, target) {
		return apperr.Newf(apperr.CodeAuthorization, "role %s may not manage %s accounts", actor.Role, target)
	}
	return nil
}

// compensate removes an identity record whose profile write failed.
func (s *userService) compensate(ctx context.Context, userID uuid.UUID, cause error) error {
	const message = "identity created, profile write failed"

	s.log.Warn("Profile write failed, deleting identity",
		zap.Error(cause),
		zap.String("user_id", userID.String()),
	)

	if err := s.identity.DeleteUser(ctx, userID); err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		metrics.AccountOrphansTotal.Inc()
		s.log.Error("Orphaned identity needs reconciliation",
			zap.Error(err),
			zap.NamedError("profile_error", cause),
			zap.String("user_id", userID.String()),
		)
		return apperr.Wrap(cause, apperr.CodeBackend, fmt.Sprintf("%s; compensation failed: %v", message, err))
	}

	return apperr.Wrap(cause, apperr.CodeBackend, message)
}

func (s *userService) UpdateAccount(ctx context.Context, userID string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	actor, err := authorize(ctx, s.resolver, policy.ActionUpdate, policy.ResourceAdminUser)
	if err != nil {
		return nil, err
	}
	id, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Ensure(err, "get user")
	}
	if err := canManage(actor, target.Profile.Role); err != nil {
		return nil, err
	}
	if req.Role != nil && !policy.CanAssignRole(actor.Role, entity.Role(*req.Role)) {
		return nil, apperr.Newf(apperr.CodeAuthorization, "role %s may not grant %s", actor.Role, *req.Role)
	}

	user, err := updateAccount(ctx, s.identity, s.users, id, req)
	if err != nil {
		return nil, err
	}

	s.log.Info("Account updated",
		zap.String("user_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

// updateAccount splits an edit between the identity store and the profile
// row. The two writes are separate calls.
func updateAccount(
	ctx context.Context,
	provider identity.Provider,
	users repository.AdminUserRepository,
	id uuid.UUID,
	req *request.UpdateUserRequest,
) (*entity.AdminUser, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	var username *string
	if req.Username != nil {
		u := strings.TrimSpace(*req.Username)
		username = &u
	}

	metadata := map[string]string{}
	if username != nil {
		metadata[identity.MetaUsername] = *username
	}
	if req.FirstName != nil {
		metadata[identity.MetaFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		metadata[identity.MetaLastName] = *req.LastName
	}

	if req.Email != nil || len(metadata) > 0 {
		_, err := provider.UpdateUserByID(ctx, id, identity.UserAttributes{
			Email:    req.Email,
			Metadata: metadata,
		})
		if err != nil {
			return nil, identityError(err, "update identity")
		}
	}

	changes := entity.ProfileChanges{
		Username:     username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     req.IsActive,
		PhoneNumber:  req.PhoneNumber.Optional,
		JobTitle:     req.JobTitle.Optional,
		Organisation: req.Organisation.Optional,
		Notes:        req.Notes.Optional,
	}
	if req.Role != nil {
		role := entity.Role(*req.Role)
		changes.Role = &role
	}
	if changes.Empty() {
		user, err := users.FindByID(ctx, id)
		return user, apperr.Ensure(err, "get user")
	}

	user, err := users.Update(ctx, id, changes)
	if err != nil {
		return nil, apperr.Ensure(err, "update profile")
	}
	return user, nil
}

// DeleteAccount removes the identity record; the profile row goes with it.
func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	actor, err := authorize(ctx, s.resolver, policy.ActionDelete, policy.ResourceAdminUser)
	if err != nil {
		return err
	}
	id, err := parseID(userID, "user")
	if err != nil {
		return err
	}
	if id == actor.ID {
		return apperr.Invalid("cannot delete your own account")
	}

	// An identity without a profile row holds no role; only the identity
	// record is left to remove.
	target, err := s.users.FindByID(ctx, id)
	switch {
	case err == nil:
		if err := canManage(actor, target.Profile.Role); err != nil {
			return err
		}
	case !apperr.HasCode(err, apperr.CodeNotFound):
		return apperr.Ensure(err, "get user")
	}

	if err := s.identity.DeleteUser(ctx, id); err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		return identityError(err, "delete identity")
	}

	s.log.Info("Account deleted",
		zap.String("user_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	return nil
}
