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

type CategoryRepository interface {
	FindAll(ctx context.Context, params ListParams) ([]*entity.ServiceCategory, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ServiceCategory, error)
	Create(ctx context.Context, changes entity.CategoryChanges) (*entity.ServiceCategory, error)
	Update(ctx context.Context, id uuid.UUID, changes entity.CategoryChanges) (*entity.ServiceCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var categorySearchFields = []string{"name", "slug", "description"}

var categoriesView = view{
	name:    "service_categories",
	columns: "id, name, slug, description, created_at, updated_at",
	orderBy: "name ASC, id",
}

type categoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCategoryRepository(db database.PgxIface, log *zap.Logger) CategoryRepository {
	return &categoryRepository{
		db:  db,
		log: log,
	}
}

func scanCategory(row pgx.Row) (*entity.ServiceCategory, error) {
	var c entity.ServiceCategory
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func categoryAssignments(c entity.CategoryChanges) *changeSet {
	cs := &changeSet{}
	setPtr(cs, "name", c.Name)
	setPtr(cs, "slug", c.Slug)
	setOptional(cs, "description", c.Description)
	return cs
}

func (r *categoryRepository) FindAll(ctx context.Context, params ListParams) ([]*entity.ServiceCategory, int64, error) {
	if r.db == nil {
		return nil, 0, unconfigured()
	}

	q := NewListQuery().Search(params.Search, categorySearchFields...)

	categories, total, err := findAll(ctx, r.db, categoriesView, q, params.Window, scanCategory)
	if err != nil {
		r.log.Error("Failed to list categories", zap.Error(err))
		return nil, 0, storeError(err, "categories")
	}

	return categories, total, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ServiceCategory, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	category, err := findByID(ctx, r.db, categoriesView, id, scanCategory)
	if err != nil {
		if err != pgx.ErrNoRows {
			r.log.Error("Failed to find category by ID",
				zap.Error(err),
				zap.String("category_id", id.String()),
			)
		}
		return nil, storeError(err, "category")
	}

	return category, nil
}

func (r *categoryRepository) Create(ctx context.Context, changes entity.CategoryChanges) (*entity.ServiceCategory, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	id, err := insertRow(ctx, r.db, "service_categories", categoryAssignments(changes))
	if err != nil {
		r.log.Error("Failed to create category", zap.Error(err))
		return nil, storeError(fmt.Errorf("insert category: %w", err), "category")
	}

	return reread(ctx, "category", id, r.FindByID)
}

func (r *categoryRepository) Update(ctx context.Context, id uuid.UUID, changes entity.CategoryChanges) (*entity.ServiceCategory, error) {
	if r.db == nil {
		return nil, unconfigured()
	}

	found, err := updateRow(ctx, r.db, "service_categories", "id", id, categoryAssignments(changes))
	if err != nil {
		r.log.Error("Failed to update category",
			zap.Error(err),
			zap.String("category_id", id.String()),
		)
		return nil, storeError(fmt.Errorf("update category %s: %w", id, err), "category")
	}
	if !found {
		return nil, apperr.NotFound("category")
	}

	return reread(ctx, "category", id, r.FindByID)
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return unconfigured()
	}

	if err := deleteRow(ctx, r.db, "service_categories", id); err != nil {
		r.log.Error("Failed to delete category",
			zap.Error(err),
			zap.String("category_id", id.String()),
		)
		return storeError(fmt.Errorf("delete category %s: %w", id, err), "category")
	}

	return nil
}
