package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/complaint-service/internal/api/http/handlers"
	"github.com/civicpulse/complaint-service/internal/auth"
	"github.com/civicpulse/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Complaint routes only require authentication;
// per-record authorization happens in the services.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/", cfg.Complaints.ListAll)
	complaints.Get("/mine", cfg.Complaints.ListOwn)
	complaints.Get("/assigned", cfg.Complaints.ListAssigned)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Get("/:id/history", cfg.Complaints.History)
	complaints.Put("/:id/assign", cfg.Complaints.Assign)
	complaints.Put("/:id/status", cfg.Complaints.UpdateStatus)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Get("/volunteers", cfg.Admin.ListVolunteers)
	admin.Put("/users/:id/role", cfg.Admin.ChangeRole)
}
