package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"
)

// MemoryCategoryRepository is an in-memory implementation of CategoryRepository.
type MemoryCategoryRepository struct {
	categories map[uint]models.Category
	nextID     uint
	mu         sync.RWMutex
}

// NewMemoryCategoryRepository creates a new instance of MemoryCategoryRepository.
func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{categories: make(map[uint]models.Category)}
}

// GetByID returns a copy of the stored category.
func (r *MemoryCategoryRepository) GetByID(_ context.Context, id uint) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &category, nil
}

// List returns one page of categories ordered by ID.
func (r *MemoryCategoryRepository) List(_ context.Context, page models.Page) (models.PageResult[models.Category], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return models.NewPageResult(window(all, page), page), nil
}

// Create assigns the next ID and stores the category.
func (r *MemoryCategoryRepository) Create(_ context.Context, category models.Category) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(category.Name, 0) {
		return nil, ErrDuplicate
	}
	r.nextID++
	now := time.Now()
	category.ID = r.nextID
	category.CreatedAt = now
	category.UpdatedAt = now
	r.categories[category.ID] = category
	return &category, nil
}

// Update applies the non-nil fields of patch.
func (r *MemoryCategoryRepository) Update(_ context.Context, id uint, patch models.CategoryPatch) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Empty() {
		return &category, nil
	}
	if patch.Name != nil {
		if r.nameTaken(*patch.Name, id) {
			return nil, ErrDuplicate
		}
		category.Name = *patch.Name
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}
	category.UpdatedAt = time.Now()
	r.categories[id] = category
	return &category, nil
}

// Delete removes the category.
func (r *MemoryCategoryRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *MemoryCategoryRepository) nameTaken(name string, except uint) bool {
	for id, c := range r.categories {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}
