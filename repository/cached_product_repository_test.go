package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"storefront-service/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingProductRepository struct {
	*MemoryProductRepository
	batchCalls int
}

func (c *countingProductRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Product, error) {
	c.batchCalls++
	return c.MemoryProductRepository.FindByIDs(ctx, ids)
}

func TestCachedProductRepository_FallsThroughWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	inner := NewMemoryProductRepository(models.Product{ID: "p1", Name: "Desk Lamp", Price: 39.99})
	repo := NewCachedProductRepository(inner, client, time.Minute, zap.NewNop())
	ctx := context.Background()

	p, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", p.Name)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := repo.FindByIDs(ctx, []string{"p1", "missing"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	list, err := repo.List(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCachedProductRepository_Integration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if os.Getenv("RUN_REDIS_INTEGRATION") != "true" || url == "" {
		t.Skip("set RUN_REDIS_INTEGRATION=true and REDIS_URL to run")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	inner := &countingProductRepository{MemoryProductRepository: NewMemoryProductRepository()}
	repo := NewCachedProductRepository(inner, client, time.Minute, zap.NewNop())

	seeded, err := repo.ReplaceAll(ctx, DefaultProducts()[:2])
	require.NoError(t, err)
	ids := []string{seeded[0].ID, seeded[1].ID}

	_, err = repo.FindByIDs(ctx, ids)
	require.NoError(t, err)
	found, err := repo.FindByIDs(ctx, ids)
	require.NoError(t, err)

	assert.Len(t, found, 2)
	assert.Equal(t, 1, inner.batchCalls)
}
