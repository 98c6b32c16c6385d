package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/freshplate/recipe-service/internal/api/http"
	"github.com/freshplate/recipe-service/internal/api/http/handlers"
	"github.com/freshplate/recipe-service/internal/auth"
	"github.com/freshplate/recipe-service/internal/config"
	"github.com/freshplate/recipe-service/internal/events"
	"github.com/freshplate/recipe-service/internal/observability"
	"github.com/freshplate/recipe-service/internal/persistence"
	"github.com/freshplate/recipe-service/internal/repository"
	"github.com/freshplate/recipe-service/internal/service"
	"github.com/freshplate/recipe-service/internal/storage"
	"github.com/freshplate/recipe-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	recipeRepo := repository.NewRecipeRepository(pool)
	tagRepo := repository.NewTagRepository(pool)
	ingredientRepo := repository.NewIngredientRepository(pool)

	tokenTTL := time.Duration(cfg.Auth.AccessTokenTTLMinutes) * time.Minute
	revocations := auth.NewRedisRevocationStore(redis.Client, tokenTTL, logger)
	accountService := service.NewAccountService(*cfg, service.AccountDependencies{
		UserRepo:        userRepo,
		RevocationStore: revocations,
	})

	imageStore := storage.NewDiskStore(cfg.Storage.MediaRoot)
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartImageCleanupWorker(dispatcher, imageStore, logger)

	recipeService := service.NewRecipeService(service.RecipeDependencies{
		RecipeRepo: recipeRepo,
		ImageStore: imageStore,
		Dispatcher: dispatcher,
	})
	attributeService := service.NewAttributeService(tagRepo, ingredientRepo)

	authMiddleware := auth.NewAuthMiddleware(accountService.TokenManager(), userRepo, revocations)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(accountService),
		Recipes:        handlers.NewRecipesHandler(recipeService),
		Tags:           handlers.NewTagsHandler(attributeService),
		Ingredients:    handlers.NewIngredientsHandler(attributeService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
