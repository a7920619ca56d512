package usecase

import (
	"time"

	"support-directory/internal/data/repository"
	"support-directory/internal/identity"

	"go.uber.org/zap"
)

type Service struct {
	Resolver  IdentityResolver
	Auth      AuthService
	User      UserService
	Directory DirectoryService
	Provider  ProviderService
	Category  CategoryService
}

func NewService(repo *repository.Repository, provider identity.Provider, log *zap.Logger) *Service {
	resolver := NewIdentityResolver(repo.AdminUser, log)
	return &Service{
		Resolver:  resolver,
		Auth:      NewAuthService(repo.AdminUser, provider, resolver, log),
		User:      NewUserService(repo.AdminUser, provider, resolver, log),
		Directory: NewDirectoryService(repo.Service, resolver, time.Now, log),
		Provider:  NewProviderService(repo.Provider, resolver, time.Now, log),
		Category:  NewCategoryService(repo.Category, resolver, log),
	}
}
