package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civicpulse/complaint-service/internal/observability"
	"github.com/civicpulse/complaint-service/internal/persistence"
)

// HealthHandler responds to liveness and readiness probes and serves metrics.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
	metrics     fiber.Handler
}

// NewHealthHandler returns a new handler instance. Disabled backends report as "disabled".
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis, metrics *observability.Metrics) *HealthHandler {
	h := &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
	if reg := metrics.Registry(); reg != nil {
		h.metrics = adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	return h
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{
		"postgres": probe(ctx, h.postgres.Enabled(), h.postgres.Ping),
		"redis":    probe(ctx, h.redis.Enabled(), h.redis.Ping),
	}
	ready := true
	for _, status := range depStatus {
		if status != "ok" && status != "disabled" {
			ready = false
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"success":      true,
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

func probe(ctx context.Context, enabled bool, ping func(context.Context) error) string {
	if !enabled {
		return "disabled"
	}
	if err := ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}

// Metrics serves the Prometheus exposition format.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	if h.metrics == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return h.metrics(c)
}
