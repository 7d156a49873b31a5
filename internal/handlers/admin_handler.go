package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/models"
	"storefront/internal/services"
)

// AdminHandler exposes user management to admins.
type AdminHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(authService *services.AuthService, v *validator.Validate) *AdminHandler {
	return &AdminHandler{authService: authService, validate: v}
}

// RegisterRoutes registers the admin routes behind guards.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	admin := router.Group("/admin", guards...)
	admin.Put("/users/:id/role", h.SetRole)
}

// SetRole changes the role of the user in the path.
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input models.RoleInput
	if err := parseBody(c, h.validate, &input); err != nil {
		return err
	}
	user, err := h.authService.SetRole(c.UserContext(), id, input.Role)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
