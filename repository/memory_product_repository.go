package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"storefront-service/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-process catalog.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

// NewMemoryProductRepository stores products as given. Products without an
// ID get a fresh one.
func NewMemoryProductRepository(products ...models.Product) *MemoryProductRepository {
	r := &MemoryProductRepository{products: make(map[string]models.Product)}
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryProductRepository) FindByIDs(_ context.Context, ids []string) (map[string]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*models.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out[id] = &p
		}
	}
	return out, nil
}

func (r *MemoryProductRepository) List(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryProductRepository) ReplaceAll(_ context.Context, products []models.Product) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = make(map[string]models.Product, len(products))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		r.products[p.ID] = p
		out = append(out, p)
	}
	return out, nil
}

// Delete removes a product. Tests use it to simulate catalog churn.
func (r *MemoryProductRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
}
