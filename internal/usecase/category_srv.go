package usecase

import (
	"context"
	"strings"

	"support-directory/internal/data/entity"
	"support-directory/internal/data/repository"
	"support-directory/internal/dto/request"
	"support-directory/internal/dto/response"
	"support-directory/internal/policy"
	"support-directory/pkg/apperr"
	"support-directory/pkg/utils"

	"go.uber.org/zap"
)

type CategoryService interface {
	ListCategories(ctx context.Context, req *request.ListRequest) (*response.Paginated[response.CategoryResponse], error)
	CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error)
	UpdateCategory(ctx context.Context, categoryID string, req *request.CategoryRequest) (*response.CategoryResponse, error)
	DeleteCategory(ctx context.Context, categoryID string) error
}

type categoryService struct {
	repo     repository.CategoryRepository
	resolver IdentityResolver
	log      *zap.Logger
}

func NewCategoryService(repo repository.CategoryRepository, resolver IdentityResolver, log *zap.Logger) CategoryService {
	return &categoryService{
		repo:     repo,
		resolver: resolver,
		log:      log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) ListCategories(ctx context.Context, req *request.ListRequest) (*response.Paginated[response.CategoryResponse], error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	params := repository.ListParams{
		Search: req.Search,
		Window: utils.BuildPagination(req.Page, req.PageSize),
	}

	categories, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, apperr.Ensure(err, "list categories")
	}

	return response.NewPaginated(response.MapAll(categories, response.CategoryToResponse), params.Window, total), nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	actor, err := authorize(ctx, s.resolver, policy.ActionCreate, policy.ResourceCategory)
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, apperr.Invalid("name is required")
	}

	changes := entity.CategoryChanges{
		Name:        req.Name,
		Description: req.Description.Optional,
	}
	if changes.Slug, err = resolveSlug(req.Slug, req.Name); err != nil {
		return nil, err
	}

	category, err := s.repo.Create(ctx, changes)
	if err != nil {
		return nil, apperr.Ensure(err, "create category")
	}

	s.log.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("actor_id", actor.ID.String()),
	)

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if _, err := authorize(ctx, s.resolver, policy.ActionUpdate, policy.ResourceCategory); err != nil {
		return nil, err
	}
	id, err := parseID(categoryID, "category")
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperr.Invalid("name cannot be blank")
	}

	changes := entity.CategoryChanges{
		Name:        req.Name,
		Description: req.Description.Optional,
	}
	if req.Slug != nil {
		if changes.Slug, err = resolveSlug(req.Slug, req.Name); err != nil {
			return nil, err
		}
	}

	category, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, apperr.Ensure(err, "update category")
	}

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	actor, err := authorize(ctx, s.resolver, policy.ActionDelete, policy.ResourceCategory)
	if err != nil {
		return err
	}
	id, err := parseID(categoryID, "category")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Ensure(err, "delete category")
	}

	s.log.Info("Category deleted",
		zap.String("category_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	return nil
}
