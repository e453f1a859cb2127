package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/complaint-service/internal/api/http/handlers"
	"github.com/civicpulse/complaint-service/internal/app"
	"github.com/civicpulse/complaint-service/internal/auth"
)

// NewServer builds the fiber app with middlewares and routes for a wired container.
func NewServer(c *app.Container) *fiber.App {
	cfg := c.Config
	server := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  15 * time.Second,
	})
	RegisterMiddlewares(server, c.Logger, c.Metrics, cfg.App.RequestTimeout())

	RegisterRoutes(server, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, c.Postgres, c.Redis, c.Metrics),
		Auth:           handlers.NewAuthHandler(c.Auth),
		Complaints:     handlers.NewComplaintsHandler(c.Lifecycle, c.Query),
		Admin:          handlers.NewAdminHandler(c.Query, c.UserAdmin),
		AuthMiddleware: auth.NewAuthMiddleware(c.Auth.TokenManager(), c.Users),
	})
	return server
}
