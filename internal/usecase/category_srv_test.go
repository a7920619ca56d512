package usecase

import (
	"context"
	"testing"

	"support-directory/internal/data/entity"
	"support-directory/internal/dto/request"
	"support-directory/pkg/apperr"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type CategoryServiceSuite struct {
	suite.Suite
	ctx      context.Context
	repo     *memCategoryRepo
	resolver *fakeResolver
	svc      CategoryService
}

func (s *CategoryServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = newMemCategoryRepo()
	s.resolver = &fakeResolver{actor: actorWith(entity.RoleAdmin)}
	s.svc = NewCategoryService(s.repo, s.resolver, zap.NewNop())
}

func TestCategoryServiceSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceSuite))
}

func (s *CategoryServiceSuite) TestCreateDerivesSlug() {
	resp, err := s.svc.CreateCategory(s.ctx, &request.CategoryRequest{Name: strPtr("Mental Health & Wellbeing")})
	s.Require().NoError(err)
	s.Equal("mental-health-wellbeing", resp.Slug)
}

func (s *CategoryServiceSuite) TestExplicitSlugIsNormalised() {
	resp, err := s.svc.CreateCategory(s.ctx, &request.CategoryRequest{
		Name: strPtr("Housing"),
		Slug: strPtr("Emergency Housing"),
	})
	s.Require().NoError(err)
	s.Equal("emergency-housing", resp.Slug)
}

func (s *CategoryServiceSuite) TestDuplicateSlugRejected() {
	_, err := s.svc.CreateCategory(s.ctx, &request.CategoryRequest{Name: strPtr("Housing")})
	s.Require().NoError(err)

	_, err = s.svc.CreateCategory(s.ctx, &request.CategoryRequest{Name: strPtr("housing")})
	s.True(apperr.HasCode(err, apperr.CodeValidation))
}

func (s *CategoryServiceSuite) TestModeratorDenied() {
	s.resolver.actor = actorWith(entity.RoleModerator)

	_, err := s.svc.CreateCategory(s.ctx, &request.CategoryRequest{Name: strPtr("Housing")})
	s.True(apperr.HasCode(err, apperr.CodeAuthorization))

	err = s.svc.DeleteCategory(s.ctx, "6f1c5d8e-3b0a-4f0e-9a57-2b1f3c4d5e6f")
	s.True(apperr.HasCode(err, apperr.CodeAuthorization))
}

func (s *CategoryServiceSuite) TestUpdateAndList() {
	created, err := s.svc.CreateCategory(s.ctx, &request.CategoryRequest{Name: strPtr("Food")})
	s.Require().NoError(err)
	_, err = s.svc.CreateCategory(s.ctx, &request.CategoryRequest{Name: strPtr("Addiction")})
	s.Require().NoError(err)

	updated, err := s.svc.UpdateCategory(s.ctx, created.ID.String(), &request.CategoryRequest{
		Description: request.Value("Food banks and pantries"),
	})
	s.Require().NoError(err)
	s.Equal("Food", updated.Name)
	s.Equal("food", updated.Slug)
	s.Require().NotNil(updated.Description)

	page, err := s.svc.ListCategories(s.ctx, &request.ListRequest{})
	s.Require().NoError(err)
	s.Equal(int64(2), page.Count)
	s.Equal("Addiction", page.Results[0].Name)
	s.Equal("Food", page.Results[1].Name)
}

func (s *CategoryServiceSuite) TestBlankSlugWithoutNameRejected() {
	created, err := s.svc.CreateCategory(s.ctx, &request.CategoryRequest{Name: strPtr("Food")})
	s.Require().NoError(err)

	_, err = s.svc.UpdateCategory(s.ctx, created.ID.String(), &request.CategoryRequest{Slug: strPtr(" ")})
	s.True(apperr.HasCode(err, apperr.CodeValidation))
}
