package repository

import (
	"context"
	"fmt"

	"support-directory/internal/data/entity"
	"support-directory/pkg/apperr"
	"support-directory/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ServiceRepository interface {
	FindAll(ctx context.Context, params ListParams) ([]*entity.Service, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	Create(ctx context.Context, changes entity.ServiceChanges) (*entity.Service, error)
	Update(ctx context.Context, id uuid.UUID, changes entity.ServiceChanges) (*entity.Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var serviceSearchFields = []string{"name", "summary", "description"}

var servicesView = view{
	name: "services_view",
	columns: `id, name, slug, summary, description, status, approval_notes,
		provider_id, category_id, created_by, updated_by, approved_by, approved_at,
		created_at, updated_at, provider, category`,
	orderBy: "updated_at DESC, id",
}

type serviceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewServiceRepository(db database.PgxIface, log *zap.Logger) ServiceRepository {
	return &serviceRepository{
		db:  db,
		log: log,
	}
}

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Slug,
		&s.Summary,
		&s.Description,
		&s.Status,
		&s.ApprovalNotes,
		&s.ProviderID,
		&s.CategoryID,
		&s.CreatedBy,
		&s.UpdatedBy,
		&s.ApprovedBy,
		&s.ApprovedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.Provider,
		&s.Category,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// serviceAssignments maps every field of a service change set to its column.
func serviceAssignments(c entity.ServiceChanges) *changeSet {
	cs := &changeSet{}
	setPtr(cs, "name", c.Name)
	setPtr(cs, "slug", c.Slug)
	setOptional(cs, "summary", c.Summary)
	setPtr(cs, "description", c.Description)
	setPtr(cs, "status", c.Status)
	setOptional(cs, "approval_notes", c.ApprovalNotes)
	setOptional(cs, "provider_id", c.ProviderID)
	setOptional(cs, "category_id", c.CategoryID)
	setOptional(cs, "created_by", c.CreatedBy)
	setOptional(cs, "updated_by", c.UpdatedBy)
	setOptional(cs, "approved_by", c.ApprovedBy)
	setOptional(cs, "approved_at", c.ApprovedAt)
	return cs
}

// FindAll returns one page of services, most recently updated first, and the
// total matching the filters.
func (r *serviceRepository) FindAll(ctx context.Context, params ListParams) ([]*entity.Service, int64, error) {
	if r.db == nil {
		return nil, 0, unconfigured()
	}

	q := NewListQuery().Search(params.Search, serviceSearchFields...)
	if params.Status != "" {
		q.Equal("status", params.Status)
	}
	if params.CategoryID != nil {
		q.Equal("category_id", *params.CategoryID)
	}

	services, total, err := findAll(ctx, r.db, servicesView, q, params.Window, scanService)
	if err != nil {
		r.log.Error("Failed to list services",
			zap.Error(err),
			zap.String("status", params.Status),
			zap.Int("page", params.Window.Page),
		)
		return nil, 0, storeError(err, "services")
	}

	return services, total, nil
}

func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	service, err := findByID(ctx, r.db, servicesView, id, scanService)
	if err != nil {
		if err != pgx.ErrNoRows {
			r.log.Error("Failed to find service by ID",
				zap.Error(err),
				zap.String("service_id", id.String()),
			)
		}
		return nil, storeError(err, "service")
	}

	return service, nil
}

func (r *serviceRepository) Create(ctx context.Context, changes entity.ServiceChanges) (*entity.Service, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	id, err := insertRow(ctx, r.db, "services", serviceAssignments(changes))
	if err != nil {
		r.log.Error("Failed to create service", zap.Error(err))
		return nil, storeError(fmt.Errorf("insert service: %w", err), "service")
	}

	return reread(ctx, "service", id, r.FindByID)
}

func (r *serviceRepository) Update(ctx context.Context, id uuid.UUID, changes entity.ServiceChanges) (*entity.Service, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	found, err := updateRow(ctx, r.db, "services", "id", id, serviceAssignments(changes))
	if err != nil {
		r.log.Error("Failed to update service",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return nil, storeError(fmt.Errorf("update service %s: %w", id, err), "service")
	}
	if !found {
		return nil, apperr.NotFound("service")
	}

	return reread(ctx, "service", id, r.FindByID)
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return unconfigured()
	}

	if err := deleteRow(ctx, r.db, "services", id); err != nil {
		r.log.Error("Failed to delete service",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return storeError(fmt.Errorf("delete service %s: %w", id, err), "service")
	}

	r.log.Info("Service deleted", zap.String("service_id", id.String()))
	return nil
}
