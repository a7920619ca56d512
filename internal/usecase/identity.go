package usecase

import (
	"context"
	"fmt"

	"support-directory/internal/data/entity"
	"support-directory/internal/data/repository"
	"support-directory/internal/dto/request"
	"support-directory/internal/policy"
	"support-directory/pkg/apperr"
	"support-directory/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityResolver answers who is acting on the current request.
type IdentityResolver interface {
	// CurrentActor returns nil, nil when the request has no session or the
	// session's account has no active profile.
	CurrentActor(ctx context.Context) (*entity.Actor, error)
}

type identityResolver struct {
	users repository.AdminUserRepository
	log   *zap.Logger
}

func NewIdentityResolver(users repository.AdminUserRepository, log *zap.Logger) IdentityResolver {
	return &identityResolver{
		users: users,
		log:   log.With(zap.String("service", "identity_resolver")),
	}
}

func (r *identityResolver) CurrentActor(ctx context.Context) (*entity.Actor, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, nil
	}

	user, err := r.users.FindByID(ctx, userID)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		r.log.Debug("Session without profile", zap.String("user_id", userID.String()))
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Ensure(err, "resolve current actor")
	}
	if !user.IsActive {
		return nil, nil
	}

	return &entity.Actor{ID: user.ID, Role: user.Profile.Role}, nil
}

// authorize resolves the actor and checks it against the policy table.
func authorize(ctx context.Context, resolver IdentityResolver, action policy.Action, resource policy.Resource) (*entity.Actor, error) {
	actor, err := resolver.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperr.Unauthenticated()
	}
	if !policy.Allowed(actor.Role, action, resource) {
		return nil, apperr.Newf(apperr.CodeAuthorization, "role %s may not %s %s", actor.Role, action, resource)
	}
	return actor, nil
}

func parseID(id, what string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperr.Wrap(err, apperr.CodeValidation, fmt.Sprintf("invalid %s id", what))
	}
	return parsed, nil
}

func listParams(req *request.ListRequest) (repository.ListParams, error) {
	params := repository.ListParams{
		Search: req.Search,
		Status: req.Status,
		Window: utils.BuildPagination(req.Page, req.PageSize),
	}
	if req.Category != "" {
		categoryID, err := parseID(req.Category, "category")
		if err != nil {
			return params, err
		}
		params.CategoryID = &categoryID
	}
	return params, nil
}
