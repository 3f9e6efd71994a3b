package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Ash-the-k/uhi-hackathon/internal/api/dto"
	"github.com/Ash-the-k/uhi-hackathon/internal/auth"
	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
	"github.com/Ash-the-k/uhi-hackathon/internal/service"
	apperrors "github.com/Ash-the-k/uhi-hackathon/pkg/util"
)

// AuthHandler exposes login, registration and identity endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Token:  token,
		Role:   string(user.Role),
		UserID: user.ID,
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	user, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  string(user.Role),
		},
	})
}

// Me handles GET /api/auth/me and returns the enriched request identity.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingToken("no authenticated identity")
	}
	return c.JSON(identityResponse(identity))
}

func identityResponse(identity *auth.Identity) dto.IdentityResponse {
	return dto.IdentityResponse{
		ID:        identity.ID,
		Role:      identity.Role,
		DoctorID:  identity.DoctorID,
		PatientID: identity.PatientID,
		StaffID:   identity.StaffID,
		Email:     identity.Email,
		Name:      identity.Name,
	}
}
