package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/complaint-service/internal/auth"
	"github.com/civicpulse/complaint-service/internal/domain"
	apperrors "github.com/civicpulse/complaint-service/pkg/util"
)

func requirePrincipal(c *fiber.Ctx) (*domain.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func respond(c *fiber.Ctx, status int, body fiber.Map) error {
	body["success"] = true
	return c.Status(status).JSON(body)
}
