package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/testutil"
)

func TestSeed_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	products := services.NewProductService(repositories.NewGORMProductRepository(db), nil, nil, zap.NewNop())
	categories := services.NewCategoryService(repositories.NewGORMCategoryRepository(db))

	require.NoError(t, seed(ctx, products, categories, zap.NewNop()))
	require.NoError(t, seed(ctx, products, categories, zap.NewNop()))

	page, err := products.ListProducts(ctx, models.Page{Cursor: 0, Limit: 100})
	require.NoError(t, err)
	require.Len(t, page.Items, len(productFixtures))

	byName := map[string]models.Product{}
	for _, p := range page.Items {
		byName[p.Name] = p
	}
	assert.Equal(t, 10, byName["Laptop"].Stock)
	assert.True(t, byName["Laptop"].Active)
	assert.False(t, byName["Kettle"].Active)

	cats, err := categories.ListCategories(ctx, models.Page{Cursor: 0, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, cats.Items, len(categoryFixtures))
}

func TestResetCatalog(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	products := services.NewProductService(repositories.NewGORMProductRepository(db), nil, nil, zap.NewNop())
	categories := services.NewCategoryService(repositories.NewGORMCategoryRepository(db))
	require.NoError(t, seed(ctx, products, categories, zap.NewNop()))

	require.NoError(t, resetCatalog(ctx, db))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)
}
