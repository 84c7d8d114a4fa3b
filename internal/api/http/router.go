package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/antelcha/itsm-playground/internal/api/http/handlers"
	"github.com/antelcha/itsm-playground/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Statuses       *handlers.ClassificationsHandler
	Priorities     *handlers.ClassificationsHandler
	Categories     *handlers.ClassificationsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Users.Register)
	app.Post("/auth/login", cfg.Users.Login)

	authed := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	authed.Get("/users/me", cfg.Users.Profile)
	authed.Put("/users/me", cfg.Users.UpdateProfile)
	authed.Get("/users", cfg.Users.List)
	authed.Delete("/users/:id", cfg.Users.Delete)

	registerClassificationRoutes(authed, "/statuses", cfg.Statuses)
	registerClassificationRoutes(authed, "/priorities", cfg.Priorities)
	registerClassificationRoutes(authed, "/categories", cfg.Categories)

	authed.Get("/tickets", cfg.Tickets.List)
	authed.Post("/tickets", cfg.Tickets.Create)
	authed.Get("/tickets/:id", cfg.Tickets.Get)
	authed.Put("/tickets/:id", cfg.Tickets.Update)
	authed.Delete("/tickets/:id", cfg.Tickets.Delete)

	authed.Get("/tickets/:id/comments", cfg.Tickets.ListComments)
	authed.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
	authed.Get("/tickets/:id/comments/:commentID", cfg.Tickets.GetComment)
	authed.Put("/tickets/:id/comments/:commentID", cfg.Tickets.UpdateComment)
	authed.Delete("/tickets/:id/comments/:commentID", cfg.Tickets.DeleteComment)

	dashboard := authed.Group("/dashboard", auth.RequireStaff())
	dashboard.Get("/overview", cfg.Dashboard.Overview)
	dashboard.Get("/metrics", cfg.Dashboard.Metrics)
}

func registerClassificationRoutes(router fiber.Router, prefix string, handler *handlers.ClassificationsHandler) {
	group := router.Group(prefix)
	group.Get("/", handler.List)
	group.Post("/", handler.Create)
	group.Get("/:id", handler.Get)
	group.Put("/:id", handler.Update)
	group.Delete("/:id", handler.Delete)
}
