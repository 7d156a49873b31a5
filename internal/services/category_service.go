package services

import (
	"context"
	"errors"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CategoryService is a passthrough over CategoryRepository that only
// translates storage errors.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CreateCategory stores a new category; duplicate names conflict.
func (s *CategoryService) CreateCategory(ctx context.Context, input models.CreateCategoryInput) (*models.Category, error) {
	category, err := s.repo.Create(ctx, models.Category{Name: input.Name, Description: input.Description})
	return category, categoryError(err)
}

// GetCategory retrieves a single category by its ID.
func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	return category, categoryError(err)
}

// ListCategories returns one page of categories.
func (s *CategoryService) ListCategories(ctx context.Context, page models.Page) (models.PageResult[models.Category], error) {
	if err := checkPage(page); err != nil {
		return models.PageResult[models.Category]{}, err
	}
	result, err := s.repo.List(ctx, page)
	return result, categoryError(err)
}

// UpdateCategory applies a partial update.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, patch models.CategoryPatch) (*models.Category, error) {
	category, err := s.repo.Update(ctx, id, patch)
	return category, categoryError(err)
}

// DeleteCategory removes a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	return categoryError(s.repo.Delete(ctx, id))
}

func categoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewNotFoundError("category not found")
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.NewConflictError("a category with this name already exists", "name")
	default:
		return apperrors.NewInternalError("category storage failure", err)
	}
}
