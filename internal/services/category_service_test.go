package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

func TestCategoryService_CRUD(t *testing.T) {
	ctx := context.Background()
	service := services.NewCategoryService(repositories.NewMemoryCategoryRepository())

	created, err := service.CreateCategory(ctx, models.CreateCategoryInput{Name: "Kitchen", Description: "Pots"})
	require.NoError(t, err)

	name := "Cookware"
	updated, err := service.UpdateCategory(ctx, created.ID, models.CategoryPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Cookware", updated.Name)
	assert.Equal(t, "Pots", updated.Description)

	page, err := service.ListCategories(ctx, models.DefaultPage())
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, service.DeleteCategory(ctx, created.ID))

	_, err = service.GetCategory(ctx, created.ID)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestCategoryService_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	service := services.NewCategoryService(repositories.NewMemoryCategoryRepository())
	_, err := service.CreateCategory(ctx, models.CreateCategoryInput{Name: "Garden", Description: "Tools"})
	require.NoError(t, err)

	_, err = service.CreateCategory(ctx, models.CreateCategoryInput{Name: "Garden", Description: "Again"})
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)

	err = service.DeleteCategory(ctx, 99)
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	desc := "x"
	_, err = service.UpdateCategory(ctx, 99, models.CategoryPatch{Description: &desc})
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestCategoryService_ListRejectsInvalidPage(t *testing.T) {
	service := services.NewCategoryService(repositories.NewMemoryCategoryRepository())

	for _, page := range []models.Page{{Cursor: -1, Limit: 2}, {Cursor: 0, Limit: 0}} {
		_, err := service.ListCategories(context.Background(), page)
		ve, ok := apperrors.IsValidationError(err)
		require.True(t, ok, err)
		assert.NotEmpty(t, ve.Details)
	}
}
