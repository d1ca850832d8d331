package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/api/http/handlers"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/login", cfg.Users.Login)
	app.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Users.Logout)
	app.Post("/users", cfg.Users.Register)
	app.Get("/users", cfg.Users.Lookup)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
}
