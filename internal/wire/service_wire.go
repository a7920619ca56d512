package wire

import (
	"support-directory/internal/adaptor"
	"support-directory/internal/data/entity"

	"github.com/go-chi/chi/v5"
)

func wireService(r chi.Router, serviceHandler *adaptor.ServiceHandler) {
	r.Route("/services", func(r chi.Router) {
		r.Get("/", serviceHandler.List)
		r.Post("/search", serviceHandler.Search)
		r.Post("/", serviceHandler.Create)

		r.Get("/{id}", serviceHandler.Get)
		r.Patch("/{id}", serviceHandler.Update)
		r.Delete("/{id}", serviceHandler.Delete)

		r.Post("/{id}/status", serviceHandler.SetStatus)
		r.Post("/{id}/approve", serviceHandler.StatusShortcut(entity.ServiceApproved))
		r.Post("/{id}/disable", serviceHandler.StatusShortcut(entity.ServiceDisabled))
		r.Post("/{id}/reject", serviceHandler.StatusShortcut(entity.ServiceRejected))
	})
}
