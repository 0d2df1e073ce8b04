package repository

import (
	"context"
	"errors"

	"storefront-service/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("cart was modified concurrently")
)

// CartRepository persists one cart per user.
//
// Save is a compare-and-swap on Cart.Version: a zero version inserts, any
// other version only overwrites a stored cart carrying that same version.
// On success the cart's Version and UpdatedAt are advanced in place.
type CartRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	Find(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

// ProductRepository is the read side of the catalog. ReplaceAll exists only
// for seeding.
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	// FindByIDs returns the products that exist, keyed by id. Unknown ids
	// are absent from the map rather than an error.
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	ReplaceAll(ctx context.Context, products []models.Product) ([]models.Product, error)
}
