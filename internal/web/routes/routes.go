package routes

import (
	"loyaltyhub/internal/config"
	"loyaltyhub/internal/web/client"
	"loyaltyhub/internal/web/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Setup configures all web routes
func Setup(app *fiber.App, cfg *config.Config, store *session.Store) {
	api := client.New(cfg)
	pages := handlers.NewPageHandler(api, store)

	// Public pages
	app.Get("/", pages.Index)
	app.Get("/login", pages.LoginPage)
	app.Post("/login", pages.Login)
	app.Get("/register", pages.RegisterPage)
	app.Post("/register", pages.Register)
	app.Post("/logout", pages.Logout)

	// Customer pages
	customer := app.Group("", pages.RequireLogin)
	customer.Get("/home", pages.Home)
	customer.Post("/redeem", pages.Redeem)
	customer.Get("/history", pages.History)

	// Admin pages
	admin := app.Group("/admin", pages.RequireAdmin)
	admin.Get("/", pages.AdminRewards)
	admin.Get("/rewards/new", pages.AdminRewardNew)
	admin.Post("/rewards", pages.AdminRewardCreate)
	admin.Get("/rewards/:id/edit", pages.AdminRewardEdit)
	admin.Post("/rewards/:id", pages.AdminRewardUpdate)
	admin.Post("/rewards/:id/delete", pages.AdminRewardDelete)
	admin.Get("/customers", pages.AdminCustomers)
	admin.Post("/customers/:id/points", pages.AdminAddPoints)
	admin.Get("/stats", pages.AdminStats)
}
