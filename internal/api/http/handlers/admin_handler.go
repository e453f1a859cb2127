package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/complaint-service/internal/api/dto"
	"github.com/civicpulse/complaint-service/internal/service"
)

// AdminHandler serves dashboard stats and user management.
type AdminHandler struct {
	query *service.QueryService
	users *service.UserService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(query *service.QueryService, users *service.UserService) *AdminHandler {
	return &AdminHandler{query: query, users: users}
}

// Stats GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	stats, err := h.query.Stats(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"stats": stats})
}

// ListUsers GET /admin/users?role=.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	users, err := h.users.ListUsers(c.UserContext(), principal, c.Query("role"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"users": dto.NewUserList(users)})
}

// ListVolunteers GET /admin/volunteers.
func (h *AdminHandler) ListVolunteers(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	users, err := h.users.ListVolunteers(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"volunteers": dto.NewUserList(users)})
}

// ChangeRole PUT /admin/users/:id/role.
func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ChangeRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.ChangeRole(c.UserContext(), principal, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"user": dto.NewUserResponse(user)})
}
