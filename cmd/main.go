package main

import (
	"context"
	"log"
	"time"

	"imageshare.com/internal/api"
	"imageshare.com/internal/config"
	"imageshare.com/internal/event"
	"imageshare.com/internal/infra"
	"imageshare.com/internal/service"
	"imageshare.com/internal/storage"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()

	// 2. Infrastructure
	// Postgres
	pg, err := infra.NewPostgresClient(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Redis
	rdb := infra.NewRedisClient(cfg.Redis)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Image payload storage
	store, err := storage.NewLocalStore(cfg.Storage.ImageDir)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	// 3. Event bus and subscribers
	bus := event.NewBus(256)
	defer bus.Shutdown()
	service.RegisterCacheInvalidator(bus, rdb)
	service.RegisterAuditLogger(bus)

	// 4. Services
	jwtSecret := []byte(cfg.Auth.JWTSecret)
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour

	accounts := service.NewAccountService(pg.DB, store, bus, jwtSecret, tokenTTL)
	images := service.NewImageService(pg.DB, store, bus)
	listings := service.NewListingService(pg.DB, rdb)

	// 5. Seed tags and default accounts
	service.SeedTags(pg.DB)
	service.EnsureDefaultAccounts(pg.DB)

	// 6. Fiber server and routes
	app := api.NewServer(cfg)
	router := api.NewRouter(app, cfg, pg.DB, rdb, accounts, images, listings)
	router.RegisterRoutes()

	// 7. Listen
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
