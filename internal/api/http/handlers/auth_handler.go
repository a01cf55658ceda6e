package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wmachadoc/Abertura-de-tickets/internal/api/dto"
	"github.com/wmachadoc/Abertura-de-tickets/internal/service"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

// AuthHandler manages the login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user,
	}})
}
