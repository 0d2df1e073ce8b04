package repository

import (
	"context"
	"testing"

	"storefront-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCartRepository runs the behaviour every CartRepository must share.
// userPrefix keeps runs against shared backends apart.
func testCartRepository(t *testing.T, repo CartRepository, userPrefix string) {
	ctx := context.Background()

	t.Run("find missing cart", func(t *testing.T) {
		_, err := repo.Find(ctx, userPrefix+"nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("get or create is idempotent", func(t *testing.T) {
		user := userPrefix + "alice"
		first, err := repo.GetOrCreate(ctx, user)
		require.NoError(t, err)
		assert.Empty(t, first.Items)
		assert.NotZero(t, first.Version)

		second, err := repo.GetOrCreate(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, first.Version, second.Version)

		found, err := repo.Find(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, user, found.UserID)
	})

	t.Run("save advances version and rejects stale writes", func(t *testing.T) {
		user := userPrefix + "bob"
		cart, err := repo.GetOrCreate(ctx, user)
		require.NoError(t, err)
		stale := cart.Clone()

		cart.Items = append(cart.Items, models.CartItem{ID: "item-1", ProductID: "p1", Quantity: 2})
		before := cart.Version
		require.NoError(t, repo.Save(ctx, cart))
		assert.Equal(t, before+1, cart.Version)

		stale.Items = nil
		assert.ErrorIs(t, repo.Save(ctx, stale), ErrVersionConflict)

		stored, err := repo.Find(ctx, user)
		require.NoError(t, err)
		require.Len(t, stored.Items, 1)
		assert.Equal(t, "p1", stored.Items[0].ProductID)
		assert.Equal(t, 2, stored.Items[0].Quantity)
		assert.Equal(t, cart.Version, stored.Version)
	})

	t.Run("insert with zero version", func(t *testing.T) {
		user := userPrefix + "carol"
		cart := models.NewCart(user)
		require.NoError(t, repo.Save(ctx, cart))
		assert.Equal(t, int64(1), cart.Version)

		again := models.NewCart(user)
		assert.ErrorIs(t, repo.Save(ctx, again), ErrVersionConflict)
	})
}
