package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// GetByID retrieves a category by its ID.
func (r *GORMCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID %d: %w", id, err)
	}
	return &category, nil
}

// List returns one page of categories ordered by ID.
func (r *GORMCategoryRepository) List(ctx context.Context, page models.Page) (models.PageResult[models.Category], error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("id").Limit(page.Limit + 1).Offset(page.Cursor).Find(&rows).Error
	if err != nil {
		return models.PageResult[models.Category]{}, fmt.Errorf("failed to list categories: %w", err)
	}
	return models.NewPageResult(rows, page), nil
}

// Create inserts a new category.
func (r *GORMCategoryRepository) Create(ctx context.Context, category models.Category) (*models.Category, error) {
	category.ID = 0
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		if err = translateError(err); errors.Is(err, ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// Update applies the non-nil fields of patch.
func (r *GORMCategoryRepository) Update(ctx context.Context, id uint, patch models.CategoryPatch) (*models.Category, error) {
	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}

	var category models.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return translateError(err)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&category).Updates(updates).Error; err != nil {
			return translateError(err)
		}
		return tx.First(&category, id).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}
	return &category, nil
}

// Delete removes a category by its ID.
func (r *GORMCategoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
