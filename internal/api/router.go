package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"imageshare.com/internal/api/middleware"
	"imageshare.com/internal/auth"
	"imageshare.com/internal/config"
	"imageshare.com/internal/domain"
)

// Router registers all application routes
type Router struct {
	app    *fiber.App
	cfg    *config.Config
	db     *gorm.DB
	rdb    *redis.Client
	router fiber.Router // /api group

	accounts domain.AccountService
	images   domain.ImageService
	listings domain.ListingService
}

func NewRouter(app *fiber.App, cfg *config.Config, db *gorm.DB, rdb *redis.Client,
	accounts domain.AccountService, images domain.ImageService, listings domain.ListingService) *Router {
	return &Router{
		app:      app,
		cfg:      cfg,
		db:       db,
		rdb:      rdb,
		accounts: accounts,
		images:   images,
		listings: listings,
	}
}

// RegisterRoutes wires the public and protected route groups
func (r *Router) RegisterRoutes() {
	// 1. Initialize Casbin Enforcer
	enforcer, err := auth.InitCasbin(r.db)
	if err != nil {
		log.Fatalf("Failed to initialize Casbin: %v", err)
	}

	// 2. Initialize Handlers
	authHandler := NewAuthHandler(r.accounts, r.rdb)
	imageHandler := NewImageHandler(r.images)
	listingHandler := NewListingHandler(r.listings)
	accountHandler := NewAccountHandler(r.accounts)

	// 3. Accessibility preference cookie, read on every request
	r.app.Use(middleware.ADAMiddleware())

	// 4. Public routes
	r.app.Post("/auth/register", authHandler.Register)
	r.app.Post("/auth/login", authHandler.Login)

	// 5. Protected /api routes behind JWT + Casbin
	r.router = r.app.Group("/api")
	r.router.Use(middleware.SessionMiddleware(r.db, r.rdb, enforcer, []byte(r.cfg.Auth.JWTSecret)))

	r.registerAuthRoutes(authHandler)
	r.registerImageRoutes(imageHandler)
	r.registerListingRoutes(listingHandler)
	r.registerModerationRoutes(imageHandler)
	r.registerAccountRoutes(accountHandler)
}

func (r *Router) registerAuthRoutes(h *AuthHandler) {
	r.router.Get("/auth/me", h.GetMe)
	r.router.Post("/auth/logout", h.Logout)
	r.router.Put("/auth/password", h.ChangePassword)
}

func (r *Router) registerImageRoutes(h *ImageHandler) {
	images := r.router.Group("/images")
	images.Post("/", h.Upload)
	images.Get("/:id", h.Details)
	images.Get("/:id/file", h.File)
	images.Put("/:id", h.Edit)
	images.Delete("/:id", h.Delete)
}

func (r *Router) registerListingRoutes(h *ListingHandler) {
	listings := r.router.Group("/listings")
	listings.Get("/", h.ListAll)
	listings.Get("/tags/:tagID", h.ListByTag)
	listings.Get("/users/:userID", h.ListByUser)

	r.router.Get("/tags", h.Tags)
}

func (r *Router) registerModerationRoutes(h *ImageHandler) {
	// Approver-only by Casbin policy
	r.router.Put("/images/:id/approval", h.SetApproval)
	r.router.Get("/moderation/pending", h.Pending)
}

func (r *Router) registerAccountRoutes(h *AccountHandler) {
	// Admin-only by Casbin policy
	users := r.router.Group("/users")
	users.Get("/", h.ListUsers)
	users.Put("/:id/active", h.SetActive)
}
