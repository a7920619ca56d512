package adaptor

import (
	"support-directory/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Service  *ServiceHandler
	Provider *ProviderHandler
	Category *CategoryHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Service:  NewServiceHandler(service.Directory, log),
		Provider: NewProviderHandler(service.Provider, log),
		Category: NewCategoryHandler(service.Category, log),
	}
}
