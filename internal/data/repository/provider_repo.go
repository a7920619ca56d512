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

type ProviderRepository interface {
	FindAll(ctx context.Context, params ListParams) ([]*entity.ProviderProfile, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ProviderProfile, error)
	Create(ctx context.Context, changes entity.ProviderChanges) (*entity.ProviderProfile, error)
	Update(ctx context.Context, id uuid.UUID, changes entity.ProviderChanges) (*entity.ProviderProfile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var providerSearchFields = []string{"display_name", "contact_email", "description"}

var providersView = view{
	name: "provider_profiles_view",
	columns: `id, user_id, "user", display_name, contact_email, phone_number, website,
		description, address, status, reviewed_by, reviewed_at, created_at, updated_at`,
	orderBy: "created_at DESC, id",
}

type providerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProviderRepository(db database.PgxIface, log *zap.Logger) ProviderRepository {
	return &providerRepository{
		db:  db,
		log: log,
	}
}

func scanProvider(row pgx.Row) (*entity.ProviderProfile, error) {
	var p entity.ProviderProfile
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.User,
		&p.DisplayName,
		&p.ContactEmail,
		&p.PhoneNumber,
		&p.Website,
		&p.Description,
		&p.Address,
		&p.Status,
		&p.ReviewedBy,
		&p.ReviewedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func providerAssignments(c entity.ProviderChanges) *changeSet {
	cs := &changeSet{}
	setOptional(cs, "user_id", c.UserID)
	setPtr(cs, "display_name", c.DisplayName)
	setOptional(cs, "contact_email", c.ContactEmail)
	setOptional(cs, "phone_number", c.PhoneNumber)
	setOptional(cs, "website", c.Website)
	setOptional(cs, "description", c.Description)
	setOptional(cs, "address", c.Address)
	setPtr(cs, "status", c.Status)
	setOptional(cs, "reviewed_by", c.ReviewedBy)
	setOptional(cs, "reviewed_at", c.ReviewedAt)
	return cs
}

func (r *providerRepository) FindAll(ctx context.Context, params ListParams) ([]*entity.ProviderProfile, int64, error) {
	if r.db == nil {
		return nil, 0, unconfigured()
	}

	q := NewListQuery().Search(params.Search, providerSearchFields...)
	if params.Status != "" {
		q.Equal("status", params.Status)
	}

	providers, total, err := findAll(ctx, r.db, providersView, q, params.Window, scanProvider)
	if err != nil {
		r.log.Error("Failed to list providers",
			zap.Error(err),
			zap.String("status", params.Status),
			zap.Int("page", params.Window.Page),
		)
		return nil, 0, storeError(err, "providers")
	}

	return providers, total, nil
}

func (r *providerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ProviderProfile, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	provider, err := findByID(ctx, r.db, providersView, id, scanProvider)
	if err != nil {
		if err != pgx.ErrNoRows {
			r.log.Error("Failed to find provider by ID",
				zap.Error(err),
				zap.String("provider_id", id.String()),
			)
		}
		return nil, storeError(err, "provider")
	}

	return provider, nil
}

func (r *providerRepository) Create(ctx context.Context, changes entity.ProviderChanges) (*entity.ProviderProfile, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	id, err := insertRow(ctx, r.db, "provider_profiles", providerAssignments(changes))
	if err != nil {
		r.log.Error("Failed to create provider", zap.Error(err))
		return nil, storeError(fmt.Errorf("insert provider: %w", err), "provider")
	}

	return reread(ctx, "provider", id, r.FindByID)
}

func (r *providerRepository) Update(ctx context.Context, id uuid.UUID, changes entity.ProviderChanges) (*entity.ProviderProfile, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	found, err := updateRow(ctx, r.db, "provider_profiles", "id", id, providerAssignments(changes))
	if err != nil {
		r.log.Error("Failed to update provider",
			zap.Error(err),
			zap.String("provider_id", id.String()),
		)
		return nil, storeError(fmt.Errorf("update provider %s: %w", id, err), "provider")
	}
	if !found {
		return nil, apperr.NotFound("provider")
	}

	return reread(ctx, "provider", id, r.FindByID)
}

func (r *providerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return unconfigured()
	}

	if err := deleteRow(ctx, r.db, "provider_profiles", id); err != nil {
		r.log.Error("Failed to delete provider",
			zap.Error(err),
			zap.String("provider_id", id.String()),
		)
		return storeError(fmt.Errorf("delete provider %s: %w", id, err), "provider")
	}

	r.log.Info("Provider deleted", zap.String("provider_id", id.String()))
	return nil
}
