package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loyaltyhub/internal/config"
	"loyaltyhub/internal/web/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Template engine
	engine := html.New("./web/views", ".html")
	engine.AddFunc("add", func(a, b int) int { return a + b })
	if cfg.IsDev() {
		engine.Reload(true)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "LoyaltyHub Web v1.0",
		Views:   engine,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	// Session store, cookie-based lookup
	store := session.New(session.Config{
		Expiration:     24 * time.Hour,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.IsProd(),
		CookieSameSite: "Lax",
	})

	// Static assets
	app.Static("/static", "./web/static")

	// Setup routes
	routes.Setup(app, cfg, store)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Web server starting on port %s [MODE: %s]", cfg.Web.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Web.Port); err != nil {
		log.Fatalf("❌ Failed to start web server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down web server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Web server stopped gracefully")
}
