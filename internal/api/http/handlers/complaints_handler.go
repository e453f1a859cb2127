package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/complaint-service/internal/api/dto"
	"github.com/civicpulse/complaint-service/internal/service"
)

// ComplaintsHandler exposes the complaint lifecycle and role-scoped listings.
type ComplaintsHandler struct {
	lifecycle *service.LifecycleService
	query     *service.QueryService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(lifecycle *service.LifecycleService, query *service.QueryService) *ComplaintsHandler {
	return &ComplaintsHandler{lifecycle: lifecycle, query: query}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	complaint, err := h.lifecycle.Create(c.UserContext(), principal, service.ComplaintDraft{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Landmark:    req.Landmark,
		Coordinates: req.ToCoordinates(),
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, fiber.Map{"complaint": dto.NewComplaintResponse(complaint)})
}

// ListAll GET /complaints.
func (h *ComplaintsHandler) ListAll(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	complaints, err := h.query.ListAll(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"complaints": dto.NewComplaintList(complaints)})
}

// ListOwn GET /complaints/mine.
func (h *ComplaintsHandler) ListOwn(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	complaints, err := h.query.ListOwn(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"complaints": dto.NewComplaintList(complaints)})
}

// ListAssigned GET /complaints/assigned.
func (h *ComplaintsHandler) ListAssigned(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	complaints, err := h.query.ListAssigned(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"complaints": dto.NewComplaintList(complaints)})
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	complaint, err := h.lifecycle.GetByID(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"complaint": dto.NewComplaintResponse(complaint)})
}

// History GET /complaints/:id/history.
func (h *ComplaintsHandler) History(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	entries, err := h.lifecycle.History(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"history": dto.NewHistoryList(entries)})
}

// Assign PUT /complaints/:id/assign.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignVolunteerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	complaint, err := h.lifecycle.AssignVolunteer(c.UserContext(), principal, c.Params("id"), req.VolunteerID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"complaint": dto.NewComplaintResponse(complaint)})
}

// UpdateStatus PUT /complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	complaint, err := h.lifecycle.UpdateStatus(c.UserContext(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"complaint": dto.NewComplaintResponse(complaint)})
}
