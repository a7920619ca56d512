package repository

import (
	"support-directory/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Service   ServiceRepository
	Provider  ProviderRepository
	Category  CategoryRepository
	AdminUser AdminUserRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	log = log.With(zap.String("layer", "repository"))
	return &Repository{
		Service:   NewServiceRepository(db, log),
		Provider:  NewProviderRepository(db, log),
		Category:  NewCategoryRepository(db, log),
		AdminUser: NewAdminUserRepository(db, log),
	}
}
