package repository

import (
	"context"
	"sync"
	"time"

	"storefront-service/models"
)

// MemoryCartRepository keeps carts in process memory.
type MemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]*models.Cart
	now   func() time.Time
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string]*models.Cart),
		now:   time.Now,
	}
}

func (r *MemoryCartRepository) GetOrCreate(_ context.Context, userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart, ok := r.carts[userID]; ok {
		return cart.Clone(), nil
	}

	now := r.now().UTC()
	cart := models.NewCart(userID)
	cart.Version = 1
	cart.CreatedAt = now
	cart.UpdatedAt = now
	r.carts[userID] = cart
	return cart.Clone(), nil
}

func (r *MemoryCartRepository) Find(_ context.Context, userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cart.Clone(), nil
}

func (r *MemoryCartRepository) Save(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.carts[cart.UserID]
	switch {
	case cart.Version == 0 && exists:
		return ErrVersionConflict
	case cart.Version != 0 && (!exists || stored.Version != cart.Version):
		return ErrVersionConflict
	}

	now := r.now().UTC()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	cart.Version++
	r.carts[cart.UserID] = cart.Clone()
	return nil
}

// Count reports how many carts are stored.
func (r *MemoryCartRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}
