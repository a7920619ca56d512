package wire

import (
	"net/http"

	"support-directory/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	loginLimit, authenticated, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", authHandler.Login)

		// Refresh re-checks the role itself, so it only needs a live session.
		r.With(authenticated).Post("/logout", authHandler.Logout)
		r.With(authenticated).Post("/refresh", authHandler.Refresh)

		r.With(authenticated, adminOnly).Get("/me", authHandler.Me)
		r.With(authenticated, adminOnly).Patch("/me", authHandler.UpdateMe)
	})
}
