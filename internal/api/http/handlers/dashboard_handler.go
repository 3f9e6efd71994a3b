package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ash-the-k/uhi-hackathon/internal/auth"
	apperrors "github.com/Ash-the-k/uhi-hackathon/pkg/util"
)

// DashboardHandler serves the role-scoped dashboard entry points. The bodies
// are intentionally thin; the interesting work is the role gating in front of
// them.
type DashboardHandler struct{}

// NewDashboardHandler constructs handler.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Doctor handles GET /api/dashboard/doctor.
func (h *DashboardHandler) Doctor(c *fiber.Ctx) error {
	return h.respond(c, "doctor")
}

// Patient handles GET /api/dashboard/patient.
func (h *DashboardHandler) Patient(c *fiber.Ctx) error {
	return h.respond(c, "patient")
}

// Staff handles GET /api/dashboard/staff.
func (h *DashboardHandler) Staff(c *fiber.Ctx) error {
	return h.respond(c, "staff")
}

func (h *DashboardHandler) respond(c *fiber.Ctx, dashboard string) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingToken("no authenticated identity")
	}
	return c.JSON(fiber.Map{
		"dashboard": dashboard,
		"identity":  identityResponse(identity),
	})
}
