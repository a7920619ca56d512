package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"support-directory/cmd"
	"support-directory/internal/data/repository"
	"support-directory/internal/identity"
	"support-directory/internal/usecase"
	"support-directory/internal/wire"
	"support-directory/pkg/cache"
	"support-directory/pkg/database"
	"support-directory/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	if err := config.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Database.Migrate {
		if err := database.Migrate(database.DSN(config.Database, "pgx5")); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Database migrations applied")
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	rdb, err := cache.InitRedis(ctx, config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	provider := identity.NewService(
		identity.NewUserStore(db),
		identity.NewRedisSessionStore(rdb),
		identity.NewTokenIssuer(config.Auth.JWTSecret, config.Auth.SessionTTL),
		logger,
	)

	repos := repository.NewRepository(db, logger)

	if err := usecase.EnsureInitialSuperAdmin(ctx, repos.AdminUser, provider, config.SuperAdmin, logger); err != nil {
		logger.Fatal("Failed to ensure initial super admin", zap.Error(err))
	}

	limiter := cache.NewRateLimiter(rdb, config.Auth.LoginAttempts, config.Auth.LoginWindow)
	app := wire.Wiring(repos, provider, limiter, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
