package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/freshplate/recipe-service/internal/config"
	"github.com/freshplate/recipe-service/internal/observability"
	"github.com/freshplate/recipe-service/internal/persistence"
	"github.com/freshplate/recipe-service/internal/repository"
	"github.com/freshplate/recipe-service/internal/service"
)

// Bootstraps an administrative account: a regular user with the staff and
// superuser flags forced on.
func main() {
	email := flag.String("email", "", "email address for the superuser")
	password := flag.String("password", "", "password for the superuser")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	accounts := service.NewAccountService(*cfg, service.AccountDependencies{
		UserRepo: repository.NewUserRepository(pg.PoolHandle()),
	})

	user, err := accounts.CreateSuperuser(ctx, *email, *password)
	if err != nil {
		logger.Fatal("failed to create superuser", zap.Error(err))
	}
	logger.Info("superuser created", zap.Int64("id", user.ID), zap.String("email", user.Email))
}
