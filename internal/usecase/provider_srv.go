package usecase

import (
	"context"
	"strings"
	"time"

	"support-directory/internal/data/entity"
	"support-directory/internal/data/repository"
	"support-directory/internal/dto/request"
	"support-directory/internal/dto/response"
	"support-directory/internal/policy"
	"support-directory/pkg/apperr"
	"support-directory/pkg/metrics"
	"support-directory/pkg/utils"

	"go.uber.org/zap"
)

type ProviderService interface {
	ListProviders(ctx context.Context, req *request.ListRequest) (*response.Paginated[response.ProviderResponse], error)
	GetProvider(ctx context.Context, providerID string) (*response.ProviderResponse, error)
	CreateProvider(ctx context.Context, req *request.ProviderRequest) (*response.ProviderResponse, error)
	UpdateProvider(ctx context.Context, providerID string, req *request.ProviderRequest) (*response.ProviderResponse, error)
	DeleteProvider(ctx context.Context, providerID string) error
	SetProviderStatus(ctx context.Context, providerID string, req *request.StatusRequest) (*response.ProviderResponse, error)
}

type providerService struct {
	repo     repository.ProviderRepository
	resolver IdentityResolver
	now      func() time.Time
	log      *zap.Logger
}

func NewProviderService(
	repo repository.ProviderRepository,
	resolver IdentityResolver,
	now func() time.Time,
	log *zap.Logger,
) ProviderService {
	return &providerService{
		repo:     repo,
		resolver: resolver,
		now:      now,
		log:      log.With(zap.String("service", "provider")),
	}
}

// stampReview records who reviewed a provider. Unlike services, providers
// are stamped on every review, whatever the resulting status.
func stampReview(changes *entity.ProviderChanges, actor *entity.Actor, now time.Time) {
	if actor == nil {
		return
	}
	changes.ReviewedBy = entity.Some(actor.ID)
	changes.ReviewedAt = entity.Some(now)
}

func parseProviderStatus(value string) (entity.ProviderStatus, error) {
	status := entity.ProviderStatus(strings.TrimSpace(value))
	if !status.Valid() {
		return "", apperr.Newf(apperr.CodeValidation, "invalid provider status %q", value)
	}
	return status, nil
}

func providerChanges(req *request.ProviderRequest) entity.ProviderChanges {
	return entity.ProviderChanges{
		UserID:       req.UserID.Optional,
		DisplayName:  req.DisplayName,
		ContactEmail: req.ContactEmail.Optional,
		PhoneNumber:  req.PhoneNumber.Optional,
		Website:      req.Website.Optional,
		Description:  req.Description.Optional,
		Address:      req.Address.Optional,
	}
}

func (s *providerService) ListProviders(ctx context.Context, req *request.ListRequest) (*response.Paginated[response.ProviderResponse], error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if _, err := parseProviderStatus(req.Status); err != nil {
			return nil, err
		}
	}

	params, err := listParams(req)
	if err != nil {
		return nil, err
	}
	params.CategoryID = nil

	providers, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, apperr.Ensure(err, "list providers")
	}

	return response.NewPaginated(response.MapAll(providers, response.ProviderToResponse), params.Window, total), nil
}

func (s *providerService) GetProvider(ctx context.Context, providerID string) (*response.ProviderResponse, error) {
	id, err := parseID(providerID, "provider")
	if err != nil {
		return nil, err
	}

	provider, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Ensure(err, "get provider")
	}

	resp := response.ProviderToResponse(provider)
	return &resp, nil
}

func (s *providerService) CreateProvider(ctx context.Context, req *request.ProviderRequest) (*response.ProviderResponse, error) {
	actor, err := authorize(ctx, s.resolver, policy.ActionCreate, policy.ResourceProvider)
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if req.DisplayName == nil || strings.TrimSpace(*req.DisplayName) == "" {
		return nil, apperr.Invalid("display_name is required")
	}

	status := entity.ProviderPending
	if req.Status != nil {
		if status, err = parseProviderStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	changes := providerChanges(req)
	changes.Status = &status
	stampReview(&changes, actor, s.now())

	provider, err := s.repo.Create(ctx, changes)
	if err != nil {
		return nil, apperr.Ensure(err, "create provider")
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(policy.ResourceProvider), string(status)).Inc()
	s.log.Info("Provider created",
		zap.String("provider_id", provider.ID.String()),
		zap.String("actor_id", actor.ID.String()),
	)

	resp := response.ProviderToResponse(provider)
	return &resp, nil
}

func (s *providerService) UpdateProvider(ctx context.Context, providerID string, req *request.ProviderRequest) (*response.ProviderResponse, error) {
	actor, err := authorize(ctx, s.resolver, policy.ActionUpdate, policy.ResourceProvider)
	if err != nil {
		return nil, err
	}
	id, err := parseID(providerID, "provider")
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		return nil, apperr.Invalid("display_name cannot be blank")
	}

	changes := providerChanges(req)
	if req.Status != nil {
		if !policy.Allowed(actor.Role, policy.ActionSetStatus, policy.ResourceProvider) {
			return nil, apperr.Newf(apperr.CodeAuthorization, "role %s may not review providers", actor.Role)
		}
		status, err := parseProviderStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		changes.Status = &status
		stampReview(&changes, actor, s.now())
	}

	provider, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, apperr.Ensure(err, "update provider")
	}

	if req.Status != nil {
		metrics.StatusTransitionsTotal.WithLabelValues(string(policy.ResourceProvider), string(provider.Status)).Inc()
	}
	s.log.Info("Provider updated",
		zap.String("provider_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
	)

	resp := response.ProviderToResponse(provider)
	return &resp, nil
}

func (s *providerService) DeleteProvider(ctx context.Context, providerID string) error {
	actor, err := authorize(ctx, s.resolver, policy.ActionDelete, policy.ResourceProvider)
	if err != nil {
		return err
	}
	id, err := parseID(providerID, "provider")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Ensure(err, "delete provider")
	}

	s.log.Info("Provider deleted",
		zap.String("provider_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	return nil
}

// SetProviderStatus records a review. Notes replace the provider description.
func (s *providerService) SetProviderStatus(ctx context.Context, providerID string, req *request.StatusRequest) (*response.ProviderResponse, error) {
	actor, err := authorize(ctx, s.resolver, policy.ActionSetStatus, policy.ResourceProvider)
	if err != nil {
		return nil, err
	}
	id, err := parseID(providerID, "provider")
	if err != nil {
		return nil, err
	}
	status, err := parseProviderStatus(req.Status)
	if err != nil {
		return nil, err
	}

	changes := entity.ProviderChanges{Status: &status}
	stampReview(&changes, actor, s.now())
	if req.Notes != nil {
		changes.Description = entity.Some(*req.Notes)
	}

	provider, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, apperr.Ensure(err, "set provider status")
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(policy.ResourceProvider), string(status)).Inc()
	s.log.Info("Provider status changed",
		zap.String("provider_id", id.String()),
		zap.String("status", string(status)),
		zap.String("actor_id", actor.ID.String()),
	)

	resp := response.ProviderToResponse(provider)
	return &resp, nil
}
