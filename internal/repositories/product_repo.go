package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductMutation changes a loaded product in place. Returning an error aborts
// the modification and nothing is persisted.
type ProductMutation func(product *models.Product) error

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, page models.Page) (models.PageResult[models.Product], error)
	Create(ctx context.Context, product models.Product) (*models.Product, error)
	Update(ctx context.Context, id uint, product models.Product) (*models.Product, error)
	// Modify loads, mutates and persists one product as a single atomic unit,
	// so concurrent modifications of the same id never lose updates.
	Modify(ctx context.Context, id uint, mutate ProductMutation) (*models.Product, error)
}
