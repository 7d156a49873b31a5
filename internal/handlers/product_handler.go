package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/models"
	"storefront/internal/services"
)

// ProductResponse is the API shape of a product. The stored image key is
// replaced by a short-lived download URL.
type ProductResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Active      bool            `json:"active"`
	Available   bool            `json:"available"`
	ImageURL    *string         `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// QuantityRequest is the body of the stock endpoints.
type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

// PriceRequest is the body of the price endpoint.
type PriceRequest struct {
	Price decimal.Decimal `json:"price" validate:"price"`
}

// UploadURLRequest is the body of the image upload endpoint.
type UploadURLRequest struct {
	ContentType string `json:"content_type" validate:"required,startswith=image/"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, v *validator.Validate) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       v,
	}
}

// RegisterRoutes registers the product routes on router behind guards.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	products := router.Group("/products", guards...)
	products.Get("/", h.ListProducts)
	products.Post("/", h.CreateProduct)
	products.Post("/images/upload-url", h.ImageUploadURL)
	products.Get("/:id", h.GetProduct)
	products.Post("/:id/stock/add", h.AddStock)
	products.Post("/:id/stock/remove", h.RemoveStock)
	products.Post("/:id/price", h.ChangePrice)
	products.Post("/:id/activate", h.Activate)
	products.Post("/:id/deactivate", h.Deactivate)
}

// ListProducts handles GET /products with cursor pagination.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	page, err := parsePage(c, h.validate)
	if err != nil {
		return err
	}
	result, err := h.productService.ListProducts(c.UserContext(), page)
	if err != nil {
		return err
	}

	items := make([]ProductResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, h.present(&result.Items[i]))
	}
	return c.JSON(models.PageResult[ProductResponse]{Items: items, NextCursor: result.NextCursor})
}

// GetProduct handles GET /products/:id.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK)(h.productService.GetProduct(c.UserContext(), id))
}

// CreateProduct handles POST /products.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var input models.CreateProductInput
	if err := parseBody(c, h.validate, &input); err != nil {
		return err
	}
	return h.respond(c, fiber.StatusCreated)(h.productService.CreateProduct(c.UserContext(), input))
}

// AddStock handles POST /products/:id/stock/add.
func (h *ProductHandler) AddStock(c *fiber.Ctx) error {
	id, req, err := h.quantityRequest(c)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK)(h.productService.AddStock(c.UserContext(), id, req.Quantity))
}

// RemoveStock handles POST /products/:id/stock/remove.
func (h *ProductHandler) RemoveStock(c *fiber.Ctx) error {
	id, req, err := h.quantityRequest(c)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK)(h.productService.RemoveStock(c.UserContext(), id, req.Quantity))
}

// ChangePrice handles POST /products/:id/price.
func (h *ProductHandler) ChangePrice(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req PriceRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK)(h.productService.ChangePrice(c.UserContext(), id, req.Price))
}

// Activate handles POST /products/:id/activate.
func (h *ProductHandler) Activate(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK)(h.productService.Activate(c.UserContext(), id))
}

// Deactivate handles POST /products/:id/deactivate.
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK)(h.productService.Deactivate(c.UserContext(), id))
}

// ImageUploadURL handles POST /products/images/upload-url.
func (h *ProductHandler) ImageUploadURL(c *fiber.Ctx) error {
	var req UploadURLRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}
	upload, err := h.productService.ImageUploadURL(c.UserContext(), req.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(upload)
}

func (h *ProductHandler) quantityRequest(c *fiber.Ctx) (uint, QuantityRequest, error) {
	var req QuantityRequest
	id, err := parseID(c, "id")
	if err != nil {
		return 0, req, err
	}
	if err := parseBody(c, h.validate, &req); err != nil {
		return 0, req, err
	}
	return id, req, nil
}

// respond writes either the product or the error returned by a service call.
func (h *ProductHandler) respond(c *fiber.Ctx, status int) func(*models.Product, error) error {
	return func(product *models.Product, err error) error {
		if err != nil {
			return err
		}
		return c.Status(status).JSON(h.present(product))
	}
}

func (h *ProductHandler) present(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Active:      p.Active,
		Available:   domain.RestoreProduct(*p).Available(),
		ImageURL:    h.productService.ImageDownloadURL(p),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
