package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/services"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	categoryService *services.CategoryService
	validate        *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService, v *validator.Validate) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, validate: v}
}

// RegisterRoutes registers the category routes behind requireAuth.
// adminOnly additionally guards deletion.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, requireAuth, adminOnly fiber.Handler) {
	categories := router.Group("/categories", requireAuth)
	categories.Get("/", h.ListCategories)
	categories.Post("/", h.CreateCategory)
	categories.Get("/:id", h.GetCategory)
	categories.Patch("/:id", h.UpdateCategory)
	categories.Delete("/:id", adminOnly, h.DeleteCategory)
}

// ListCategories handles GET /categories.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	page, err := parsePage(c, h.validate)
	if err != nil {
		return err
	}
	result, err := h.categoryService.ListCategories(c.UserContext(), page)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetCategory handles GET /categories/:id.
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.categoryService.GetCategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(category)
}

// CreateCategory handles POST /categories.
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var input models.CreateCategoryInput
	if err := parseBody(c, h.validate, &input); err != nil {
		return err
	}
	category, err := h.categoryService.CreateCategory(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PATCH /categories/:id. An empty patch is rejected.
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var patch models.CategoryPatch
	if err := parseBody(c, h.validate, &patch); err != nil {
		return err
	}
	if patch.Empty() {
		return apperrors.NewValidationError("nothing to update")
	}
	category, err := h.categoryService.UpdateCategory(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /categories/:id.
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.categoryService.DeleteCategory(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
