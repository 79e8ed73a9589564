package routes

import (
	"loyaltyhub/internal/adapters/http/handlers"
	"loyaltyhub/internal/adapters/http/middleware"
	"loyaltyhub/internal/adapters/persistence/repositories"
	"loyaltyhub/internal/config"
	"loyaltyhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	rewardRepo := repositories.NewRewardRepository(db)
	redemptionRepo := repositories.NewRedemptionRepository(db)

	// Initialize services
	authService := services.NewAuthService(db, accountRepo, customerRepo)
	customerService := services.NewCustomerService(customerRepo, redemptionRepo)
	rewardService := services.NewRewardService(rewardRepo)
	redemptionService := services.NewRedemptionService(db, redemptionRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	rewardHandler := handlers.NewRewardHandler(rewardService, cfg)
	redemptionHandler := handlers.NewRedemptionHandler(redemptionService)

	// Health check & root routes (no API key)
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded reward images
	app.Static(cfg.Upload.PublicPath, cfg.Upload.Dir)

	// API v1 group, everything below requires the API key
	apiV1 := app.Group("/api/v1")
	apiV1.Use(middleware.APIKey(cfg))

	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler)

	customerRoutes := apiV1.Group("/customers")
	setupCustomerRoutes(customerRoutes, customerHandler)

	rewardRoutes := apiV1.Group("/rewards")
	setupRewardRoutes(rewardRoutes, rewardHandler)

	redemptionRoutes := apiV1.Group("/redemptions")
	setupRedemptionRoutes(redemptionRoutes, redemptionHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler) {
	// Brute-force protection on credential endpoints (5 req/min/IP)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
}

// setupCustomerRoutes configures customer routes
func setupCustomerRoutes(router fiber.Router, handler *handlers.CustomerHandler) {
	router.Get("/", handler.List)
	router.Get("/top-redeemers", handler.TopRedeemers)
	router.Get("/by-account/:accountId", handler.GetByAccount)
	router.Get("/:id", handler.GetByID)
	router.Post("/:id/points", handler.AddPoints)
}

// setupRewardRoutes configures reward catalog routes
func setupRewardRoutes(router fiber.Router, handler *handlers.RewardHandler) {
	router.Get("/", handler.ListAvailable)
	router.Get("/all", handler.ListAll)
	router.Post("/", handler.Create)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
	router.Post("/:id/image", handler.UploadImage)
}

// setupRedemptionRoutes configures redemption routes
func setupRedemptionRoutes(router fiber.Router, handler *handlers.RedemptionHandler) {
	router.Post("/", handler.Redeem)
	router.Get("/history/:customerId", handler.History)
}
