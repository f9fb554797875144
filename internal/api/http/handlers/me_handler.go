package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-gateway/internal/api/dto"
	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/service"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

// MeHandler serves the authenticated caller's own account.
type MeHandler struct {
	auth *service.AuthService
}

// NewMeHandler constructs handler.
func NewMeHandler(authService *service.AuthService) *MeHandler {
	return &MeHandler{auth: authService}
}

// Me handles GET /me.
func (h *MeHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token provided")
	}

	user, err := h.auth.CurrentUser(c.Context(), identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user": dto.UserResponse{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
		},
	})
}
