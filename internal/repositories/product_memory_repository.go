package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
	}
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

// List returns one page of products ordered by ID.
func (r *MemoryProductRepository) List(_ context.Context, page models.Page) (models.PageResult[models.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return models.NewPageResult(window(all, page), page), nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(product.Name, 0) {
		return nil, ErrDuplicate
	}

	r.nextID++
	now := time.Now()
	product.ID = r.nextID
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = product
	return &product, nil
}

// Update replaces an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, id uint, product models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store(id, product)
}

// Modify applies mutate while holding the write lock.
func (r *MemoryProductRepository) Modify(_ context.Context, id uint, mutate ProductMutation) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := mutate(&product); err != nil {
		return nil, err
	}
	return r.store(id, product)
}

func (r *MemoryProductRepository) store(id uint, product models.Product) (*models.Product, error) {
	current, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.nameTaken(product.Name, id) {
		return nil, ErrDuplicate
	}
	product.ID = id
	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return &product, nil
}

func (r *MemoryProductRepository) nameTaken(name string, except uint) bool {
	for id, p := range r.products {
		if id != except && p.Name == name {
			return true
		}
	}
	return false
}

// window slices an id-ordered list the way OFFSET/LIMIT+1 would.
func window[T any](all []T, page models.Page) []T {
	if page.Cursor < 0 || page.Limit < 1 || page.Cursor >= len(all) {
		return nil
	}
	end := page.Cursor + page.Limit + 1
	if end > len(all) {
		end = len(all)
	}
	return all[page.Cursor:end]
}
