package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/apperrors"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ImageSigner issues signed URLs for product images.
type ImageSigner interface {
	UploadURL(key, contentType string) (string, error)
	DownloadURL(key string) (string, error)
}

// ImageUpload is where a client should PUT a new product image.
type ImageUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

const imageKeyPrefix = "products/"

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher events.Publisher
	signer    ImageSigner
	logger    *zap.Logger
}

// NewProductService creates a new ProductService. signer may be nil when
// object storage is not configured.
func NewProductService(repo repositories.ProductRepository, publisher events.Publisher, signer ImageSigner, logger *zap.Logger) *ProductService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		signer:    signer,
		logger:    logger.Named("products"),
	}
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, productError(err)
	}
	return product, nil
}

// ListProducts returns one page of products.
func (s *ProductService) ListProducts(ctx context.Context, page models.Page) (models.PageResult[models.Product], error) {
	if err := checkPage(page); err != nil {
		return models.PageResult[models.Product]{}, err
	}
	result, err := s.repo.List(ctx, page)
	if err != nil {
		return models.PageResult[models.Product]{}, apperrors.NewInternalError("failed to list products", err)
	}
	return result, nil
}

// CreateProduct validates input through the domain entity and stores it.
func (s *ProductService) CreateProduct(ctx context.Context, input models.CreateProductInput) (*models.Product, error) {
	// Non-positive prices are refused by the entity itself.
	if input.Price.IsPositive() {
		if err := checkPrice(input.Price); err != nil {
			return nil, err
		}
	}
	entity, ok := domain.NewProduct(input)
	if !ok {
		return nil, apperrors.NewValidationError("price must be greater than zero",
			apperrors.ValidationDetail{Field: "price", Message: "must be greater than zero"})
	}

	product, err := s.repo.Create(ctx, entity.Export())
	if err != nil {
		return nil, productError(err)
	}

	s.emit(ctx, events.ProductCreated, product)
	return product, nil
}

// AddStock increases the stock of a product.
func (s *ProductService) AddStock(ctx context.Context, id uint, quantity int) (*models.Product, error) {
	return s.mutate(ctx, id, events.ProductStockChanged, func(p *domain.Product) error {
		if !p.AddStock(quantity) {
			return apperrors.NewValidationError("quantity must be greater than zero",
				apperrors.ValidationDetail{Field: "quantity", Message: "must be greater than zero"})
		}
		return nil
	})
}

// RemoveStock decreases the stock of a product.
func (s *ProductService) RemoveStock(ctx context.Context, id uint, quantity int) (*models.Product, error) {
	return s.mutate(ctx, id, events.ProductStockChanged, func(p *domain.Product) error {
		if quantity <= 0 {
			return apperrors.NewValidationError("quantity must be greater than zero",
				apperrors.ValidationDetail{Field: "quantity", Message: "must be greater than zero"})
		}
		if !p.RemoveStock(quantity) {
			return apperrors.NewValidationError("insufficient stock",
				apperrors.ValidationDetail{Field: "quantity", Message: fmt.Sprintf("only %d in stock", p.Stock())})
		}
		return nil
	})
}

// ChangePrice sets a new price on a product.
func (s *ProductService) ChangePrice(ctx context.Context, id uint, price decimal.Decimal) (*models.Product, error) {
	if price.IsPositive() {
		if err := checkPrice(price); err != nil {
			return nil, err
		}
	}
	return s.mutate(ctx, id, events.ProductPriceChanged, func(p *domain.Product) error {
		if !p.ChangePrice(price) {
			return apperrors.NewValidationError("price must be greater than zero",
				apperrors.ValidationDetail{Field: "price", Message: "must be greater than zero"})
		}
		return nil
	})
}

// Activate makes a product available for sale.
func (s *ProductService) Activate(ctx context.Context, id uint) (*models.Product, error) {
	return s.mutate(ctx, id, events.ProductActivated, func(p *domain.Product) error {
		if !p.Activate() {
			return apperrors.NewValidationError("cannot activate a product without stock")
		}
		return nil
	})
}

// Deactivate withdraws a product from sale.
func (s *ProductService) Deactivate(ctx context.Context, id uint) (*models.Product, error) {
	return s.mutate(ctx, id, events.ProductDeactivated, func(p *domain.Product) error {
		p.Deactivate()
		return nil
	})
}

// ImageUploadURL reserves a new object key and signs an upload for it.
func (s *ProductService) ImageUploadURL(_ context.Context, contentType string) (*ImageUpload, error) {
	if s.signer == nil {
		return nil, apperrors.NewUnavailableError("object storage is not configured")
	}
	key := imageKeyPrefix + uuid.NewString()
	url, err := s.signer.UploadURL(key, contentType)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to sign upload url", err)
	}
	return &ImageUpload{Key: key, UploadURL: url}, nil
}

// ImageDownloadURL signs a download of the product image. It returns nil when
// the product has no image or storage is not configured.
func (s *ProductService) ImageDownloadURL(product *models.Product) *string {
	if s.signer == nil || product.ImageKey == nil || *product.ImageKey == "" {
		return nil
	}
	url, err := s.signer.DownloadURL(*product.ImageKey)
	if err != nil {
		s.logger.Warn("failed to sign image url", zap.Uint("product_id", product.ID), zap.Error(err))
		return nil
	}
	return &url
}

// mutate runs op on the restored entity inside the repository's atomic
// modification and publishes eventType on success.
func (s *ProductService) mutate(ctx context.Context, id uint, eventType string, op func(p *domain.Product) error) (*models.Product, error) {
	product, err := s.repo.Modify(ctx, id, func(data *models.Product) error {
		entity := domain.RestoreProduct(*data)
		if err := op(entity); err != nil {
			return err
		}
		*data = entity.Export()
		return nil
	})
	if err != nil {
		return nil, productError(err)
	}

	s.emit(ctx, eventType, product)
	return product, nil
}

func (s *ProductService) emit(ctx context.Context, eventType string, product *models.Product) {
	event, err := events.New(eventType, product.ID, product)
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Error("failed to publish event",
			zap.String("type", eventType),
			zap.Uint("product_id", product.ID),
			zap.Error(err))
	}
}

func productError(err error) error {
	if _, ok := apperrors.IsValidationError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewNotFoundError("product not found")
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.NewConflictError("a product with this name already exists", "name")
	default:
		return apperrors.NewInternalError("product storage failure", err)
	}
}
