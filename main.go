package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/user-vault/backend/internal/config"
	"github.com/user-vault/backend/internal/db"
	"github.com/user-vault/backend/internal/handler"
	"github.com/user-vault/backend/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	store := db.NewPostgres(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	tokenSvc, err := service.NewTokenService(cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to init token service: %v", err)
	}

	authSvc, err := service.NewAuthService(store, store, tokenSvc, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to init auth service: %v", err)
	}

	userSvc := service.NewUserService(store)

	router := handler.NewRouter(
		handler.NewAuthHandler(authSvc),
		handler.NewUserHandler(userSvc),
		tokenSvc,
		cfg.Server.AllowedOrigins,
	)

	log.Printf("Server started on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
