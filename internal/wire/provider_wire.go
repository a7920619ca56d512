package wire

import (
	"support-directory/internal/adaptor"
	"support-directory/internal/data/entity"

	"github.com/go-chi/chi/v5"
)

func wireProvider(r chi.Router, providerHandler *adaptor.ProviderHandler) {
	r.Route("/providers", func(r chi.Router) {
		r.Get("/", providerHandler.List)
		r.Post("/search", providerHandler.Search)
		r.Post("/", providerHandler.Create)

		r.Get("/{id}", providerHandler.Get)
		r.Patch("/{id}", providerHandler.Update)
		r.Delete("/{id}", providerHandler.Delete)

		r.Post("/{id}/status", providerHandler.SetStatus)
		r.Post("/{id}/approve", providerHandler.StatusShortcut(entity.ProviderApproved))
		r.Post("/{id}/disable", providerHandler.StatusShortcut(entity.ProviderDisabled))
		r.Post("/{id}/reject", providerHandler.StatusShortcut(entity.ProviderRejected))
	})
}
