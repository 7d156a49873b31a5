package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/testutil"
)

func categoryRepos(t *testing.T) map[string]repositories.CategoryRepository {
	return map[string]repositories.CategoryRepository{
		"gorm":   repositories.NewGORMCategoryRepository(testutil.SetupTestDB(t)),
		"memory": repositories.NewMemoryCategoryRepository(),
	}
}

func strPtr(s string) *string { return &s }

func TestCategoryRepository_CRUD(t *testing.T) {
	for name, repo := range categoryRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := repo.Create(ctx, models.Category{Name: "Books", Description: "Paper"})
			require.NoError(t, err)
			assert.NotZero(t, created.ID)

			updated, err := repo.Update(ctx, created.ID, models.CategoryPatch{Description: strPtr("Paper and ink")})
			require.NoError(t, err)
			assert.Equal(t, "Books", updated.Name)
			assert.Equal(t, "Paper and ink", updated.Description)

			got, err := repo.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "Paper and ink", got.Description)

			require.NoError(t, repo.Delete(ctx, created.ID))
			_, err = repo.GetByID(ctx, created.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, repo.Delete(ctx, created.ID), repositories.ErrNotFound)
		})
	}
}

func TestCategoryRepository_EmptyPatchReturnsCurrent(t *testing.T) {
	for name, repo := range categoryRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created, err := repo.Create(ctx, models.Category{Name: "Games", Description: "Board"})
			require.NoError(t, err)

			got, err := repo.Update(ctx, created.ID, models.CategoryPatch{})
			require.NoError(t, err)
			assert.Equal(t, "Games", got.Name)
			assert.Equal(t, "Board", got.Description)
		})
	}
}

func TestCategoryRepository_Conflicts(t *testing.T) {
	for name, repo := range categoryRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := repo.Create(ctx, models.Category{Name: "Music", Description: "Vinyl"})
			require.NoError(t, err)
			other, err := repo.Create(ctx, models.Category{Name: "Film", Description: "Reels"})
			require.NoError(t, err)

			_, err = repo.Create(ctx, models.Category{Name: "Music", Description: "Again"})
			assert.ErrorIs(t, err, repositories.ErrDuplicate)

			_, err = repo.Update(ctx, other.ID, models.CategoryPatch{Name: strPtr("Music")})
			assert.ErrorIs(t, err, repositories.ErrDuplicate)

			_, err = repo.Update(ctx, 999, models.CategoryPatch{Name: strPtr("Nope")})
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	}
}

func TestCategoryRepository_List(t *testing.T) {
	for name, repo := range categoryRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, n := range []string{"A", "B"} {
				_, err := repo.Create(ctx, models.Category{Name: n, Description: n})
				require.NoError(t, err)
			}

			page, err := repo.List(ctx, models.DefaultPage())
			require.NoError(t, err)
			assert.Len(t, page.Items, 2)
			assert.Nil(t, page.NextCursor)
		})
	}
}
