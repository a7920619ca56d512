package usecase

import (
	"context"
	"fmt"
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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DirectoryService manages directory services and their approval state.
type DirectoryService interface {
	ListServices(ctx context.Context, req *request.ListRequest) (*response.Paginated[response.ServiceResponse], error)
	GetService(ctx context.Context, serviceID string) (*response.ServiceResponse, error)
	CreateService(ctx context.Context, req *request.ServiceRequest) (*response.ServiceResponse, error)
	UpdateService(ctx context.Context, serviceID string, req *request.ServiceRequest) (*response.ServiceResponse, error)
	DeleteService(ctx context.Context, serviceID string) error
	SetServiceStatus(ctx context.Context, serviceID string, req *request.StatusRequest) (*response.ServiceResponse, error)
}

type directoryService struct {
	repo     repository.ServiceRepository
	resolver IdentityResolver
	now      func() time.Time
	log      *zap.Logger
}

func NewDirectoryService(
	repo repository.ServiceRepository,
	resolver IdentityResolver,
	now func() time.Time,
	log *zap.Logger,
) DirectoryService {
	return &directoryService{
		repo:     repo,
		resolver: resolver,
		now:      now,
		log:      log.With(zap.String("service", "directory")),
	}
}

// stampApproval keeps approved_by/approved_at in step with status: set from
// the actor on approval, cleared on anything else.
func stampApproval(changes *entity.ServiceChanges, status entity.ServiceStatus, actor *entity.Actor, now time.Time) {
	changes.Status = &status
	if status == entity.ServiceApproved {
		changes.ApprovedBy = entity.Some(actor.ID)
		changes.ApprovedAt = entity.Some(now)
		return
	}
	changes.ApprovedBy = entity.Null[uuid.UUID]()
	changes.ApprovedAt = entity.Null[time.Time]()
}

func parseServiceStatus(value string) (entity.ServiceStatus, error) {
	status := entity.ServiceStatus(strings.TrimSpace(value))
	if !status.Valid() {
		return "", apperr.Newf(apperr.CodeValidation, "invalid service status %q", value)
	}
	return status, nil
}

// serviceChanges copies the non-status fields of a payload.
func serviceChanges(req *request.ServiceRequest) entity.ServiceChanges {
	return entity.ServiceChanges{
		Name:          req.Name,
		Slug:          req.Slug,
		Summary:       req.Summary.Optional,
		Description:   req.Description,
		ApprovalNotes: req.ApprovalNotes.Optional,
		ProviderID:    req.ProviderID.Optional,
		CategoryID:    req.CategoryID.Optional,
	}
}

// resolveSlug fills in a blank slug from the name.
func resolveSlug(slug, name *string) (*string, error) {
	if slug != nil && strings.TrimSpace(*slug) != "" {
		s := utils.Slugify(*slug)
		return &s, nil
	}
	if slug == nil && name == nil {
		return nil, nil
	}
	if name == nil {
		return nil, apperr.Invalid("slug cannot be blank")
	}
	derived := utils.Slugify(*name)
	if derived == "" {
		return nil, apperr.Invalid("slug cannot be derived from name")
	}
	return &derived, nil
}

func (s *directoryService) ListServices(ctx context.Context, req *request.ListRequest) (*response.Paginated[response.ServiceResponse], error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if _, err := parseServiceStatus(req.Status); err != nil {
			return nil, err
		}
	}

	params, err := listParams(req)
	if err != nil {
		return nil, err
	}

	services, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, apperr.Ensure(err, "list services")
	}

	s.log.Debug("Services listed",
		zap.Int("count", len(services)),
		zap.Int64("total", total),
		zap.Int("page", params.Window.Page),
	)

	return response.NewPaginated(response.MapAll(services, response.ServiceToResponse), params.Window, total), nil
}

func (s *directoryService) GetService(ctx context.Context, serviceID string) (*response.ServiceResponse, error) {
	id, err := parseID(serviceID, "service")
	if err != nil {
		return nil, err
	}

	service, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Ensure(err, "get service")
	}

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *directoryService) CreateService(ctx context.Context, req *request.ServiceRequest) (*response.ServiceResponse, error) {
	actor, err := authorize(ctx, s.resolver, policy.ActionCreate, policy.ResourceService)
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, apperr.Invalid("name is required")
	}

	status := entity.ServicePending
	if req.Status != nil {
		if status, err = parseServiceStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if !policy.AllowedServiceStatus(actor.Role, status) {
		return nil, apperr.Newf(apperr.CodeAuthorization, "role %s may not create a %s service", actor.Role, status)
	}

	changes := serviceChanges(req)
	if changes.Slug, err = resolveSlug(req.Slug, req.Name); err != nil {
		return nil, err
	}
	changes.CreatedBy = entity.Some(actor.ID)
	changes.UpdatedBy = entity.Some(actor.ID)
	stampApproval(&changes, status, actor, s.now())

	service, err := s.repo.Create(ctx, changes)
	if err != nil {
		return nil, apperr.Ensure(err, "create service")
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(policy.ResourceService), string(status)).Inc()
	s.log.Info("Service created",
		zap.String("service_id", service.ID.String()),
		zap.String("status", string(status)),
		zap.String("actor_id", actor.ID.String()),
	)

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *directoryService) UpdateService(ctx context.Context, serviceID string, req *request.ServiceRequest) (*response.ServiceResponse, error) {
	actor, err := authorize(ctx, s.resolver, policy.ActionUpdate, policy.ResourceService)
	if err != nil {
		return nil, err
	}
	id, err := parseID(serviceID, "service")
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperr.Invalid("name cannot be blank")
	}

	changes := serviceChanges(req)
	if req.Slug != nil {
		if changes.Slug, err = resolveSlug(req.Slug, req.Name); err != nil {
			return nil, err
		}
	}
	changes.UpdatedBy = entity.Some(actor.ID)

	if req.Status != nil {
		status, err := parseServiceStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		if !policy.AllowedServiceStatus(actor.Role, status) {
			return nil, apperr.Newf(apperr.CodeAuthorization, "role %s may not set service status %s", actor.Role, status)
		}
		stampApproval(&changes, status, actor, s.now())
	}

	service, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, apperr.Ensure(err, "update service")
	}

	if req.Status != nil {
		metrics.StatusTransitionsTotal.WithLabelValues(string(policy.ResourceService), string(service.Status)).Inc()
	}
	s.log.Info("Service updated",
		zap.String("service_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
	)

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *directoryService) DeleteService(ctx context.Context, serviceID string) error {
	actor, err := authorize(ctx, s.resolver, policy.ActionDelete, policy.ResourceService)
	if err != nil {
		return err
	}
	id, err := parseID(serviceID, "service")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Ensure(err, "delete service")
	}

	s.log.Info("Service deleted",
		zap.String("service_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	return nil
}

// SetServiceStatus moves a service to any status the actor's role permits.
func (s *directoryService) SetServiceStatus(ctx context.Context, serviceID string, req *request.StatusRequest) (*response.ServiceResponse, error) {
	actor, err := authorize(ctx, s.resolver, policy.ActionSetStatus, policy.ResourceService)
	if err != nil {
		return nil, err
	}
	id, err := parseID(serviceID, "service")
	if err != nil {
		return nil, err
	}
	status, err := parseServiceStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if !policy.AllowedServiceStatus(actor.Role, status) {
		return nil, apperr.Newf(apperr.CodeAuthorization, "role %s may not set service status %s", actor.Role, status)
	}

	changes := entity.ServiceChanges{UpdatedBy: entity.Some(actor.ID)}
	stampApproval(&changes, status, actor, s.now())
	if req.Notes != nil {
		changes.ApprovalNotes = entity.Some(*req.Notes)
	}

	service, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, apperr.Ensure(err, fmt.Sprintf("set service status %s", status))
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(policy.ResourceService), string(status)).Inc()
	s.log.Info("Service status changed",
		zap.String("service_id", id.String()),
		zap.String("status", string(status)),
		zap.String("actor_id", actor.ID.String()),
	)

	resp := response.ServiceToResponse(service)
	return &resp, nil
}
