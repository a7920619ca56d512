package wire

import (
	"net/http"

	"support-directory/internal/adaptor"
	"support-directory/internal/data/repository"
	"support-directory/internal/identity"
	"support-directory/internal/usecase"
	"support-directory/pkg/middleware"
	"support-directory/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds the usecases, handlers and router.
func Wiring(
	repo *repository.Repository,
	provider identity.Provider,
	limiter middleware.Limiter,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, provider, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, service, provider, limiter, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	provider identity.Provider,
	limiter middleware.Limiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(config.App.CORSOrigins...))

	authenticated := middleware.AuthSession(provider, logger)
	adminOnly := middleware.AdminTier(service.Resolver, logger)
	loginLimit := middleware.RateLimit(limiter, "admin_login", logger)

	r.Route("/api/admin", func(r chi.Router) {
		wireAuth(r, handler.Auth, loginLimit, authenticated, adminOnly)

		r.Group(func(r chi.Router) {
			r.Use(authenticated, adminOnly)

			wireService(r, handler.Service)
			wireProvider(r, handler.Provider)
			wireCategory(r, handler.Category)
			wireUser(r, handler.User)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
