package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/models"
)

var productColumns = []string{"name", "description", "price", "stock", "active", "image_key", "updated_at"}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// List returns one page of products ordered by ID.
func (r *GORMProductRepository) List(ctx context.Context, page models.Page) (models.PageResult[models.Product], error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Order("id").
		Limit(page.Limit + 1).
		Offset(page.Cursor).
		Find(&rows).Error
	if err != nil {
		return models.PageResult[models.Product]{}, fmt.Errorf("failed to list products: %w", err)
	}
	return models.NewPageResult(rows, page), nil
}

// Create inserts a new product and returns the stored row.
func (r *GORMProductRepository) Create(ctx context.Context, product models.Product) (*models.Product, error) {
	product.ID = 0
	if err := r.db.WithContext(ctx).Create(&product).Error; err != nil {
		if err = translateError(err); errors.Is(err, ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	var stored models.Product
	if err := r.db.WithContext(ctx).First(&stored, product.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product %d: %w", product.ID, err)
	}
	return &stored, nil
}

// Update overwrites every mutable column of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, id uint, product models.Product) (*models.Product, error) {
	var updated *models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		updated, err = saveProduct(tx, id, product)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Modify locks the row with SELECT ... FOR UPDATE inside a transaction, applies
// mutate and writes the result back before the lock is released.
func (r *GORMProductRepository) Modify(ctx context.Context, id uint, mutate ProductMutation) (*models.Product, error) {
	var updated *models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock product %d: %w", id, err)
		}

		if err := mutate(&product); err != nil {
			return err
		}

		updated, err = saveProduct(tx, id, product)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func saveProduct(tx *gorm.DB, id uint, product models.Product) (*models.Product, error) {
	product.ID = id
	res := tx.Model(&models.Product{ID: id}).Select(productColumns).Updates(&product)
	if res.Error != nil {
		if err := translateError(res.Error); errors.Is(err, ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var stored models.Product
	if err := tx.First(&stored, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product %d: %w", id, err)
	}
	return &stored, nil
}
