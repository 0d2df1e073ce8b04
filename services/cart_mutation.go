package services

import (
	"context"
	"errors"

	apperrors "storefront-service/errors"
	"storefront-service/models"
	"storefront-service/repository"

	"go.uber.org/zap"
)

// maxSaveAttempts bounds the load-mutate-save loop under contention.
const maxSaveAttempts = 3

type cartLoader func(ctx context.Context, userID string) (*models.Cart, error)

// cartMutation edits a freshly loaded cart. It reports whether anything
// changed; unchanged carts are not written.
type cartMutation func(cart *models.Cart) (bool, error)

// mutateCart runs load, apply and a versioned save, restarting from a fresh
// load whenever the save loses a race. Errors from load and apply are
// returned as-is.
func mutateCart(ctx context.Context, carts repository.CartRepository, logger *zap.Logger, userID string, load cartLoader, apply cartMutation) (*models.Cart, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		cart, err := load(ctx, userID)
		if err != nil {
			return nil, err
		}

		changed, err := apply(cart)
		if err != nil {
			return nil, err
		}
		if !changed {
			return cart, nil
		}

		err = carts.Save(ctx, cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.Fault("Failed to save cart", err)
		}

		logger.Warn("Cart version conflict",
			zap.String("user_id", userID),
			zap.Int("attempt", attempt),
		)
	}

	return nil, apperrors.Conflict("Cart was modified concurrently, please retry")
}
