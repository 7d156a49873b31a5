package repositories

import (
	"context"

	"storefront/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context, page models.Page) (models.PageResult[models.Category], error)
	Create(ctx context.Context, category models.Category) (*models.Category, error)
	Update(ctx context.Context, id uint, patch models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id uint) error
}
