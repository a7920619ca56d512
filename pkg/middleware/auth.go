package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"support-directory/internal/data/entity"
	"support-directory/internal/identity"
	"support-directory/pkg/utils"

	"go.uber.org/zap"
)

// ActorResolver looks up the role behind the request's session.
type ActorResolver interface {
	CurrentActor(ctx context.Context) (*entity.Actor, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AuthSession validates the bearer token against the identity service and
// stores the session's account id and token on the request context.
func AuthSession(provider identity.Provider, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			session, err := provider.GetSession(r.Context(), token)
			if errors.Is(err, identity.ErrSessionNotFound) {
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseBadGateway(w, "Identity service unavailable")
				return
			}

			ctx := utils.SetUserContext(r.Context(), session.UserID)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminTier only lets active moderator, admin and super admin accounts
// through. It must run after AuthSession.
func AdminTier(resolver ActorResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := resolver.CurrentActor(r.Context())
			if err != nil {
				logger.Error("Admin check: failed to resolve actor", zap.Error(err))
				utils.ResponseBadGateway(w, "Failed to resolve current user")
				return
			}

			if actor == nil {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !actor.Role.IsAdminTier() {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", actor.ID.String()),
					zap.String("role", string(actor.Role)),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
