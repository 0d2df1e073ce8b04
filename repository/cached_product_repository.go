package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-service/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductCachePrefix     = "product:detail:"
	ProductListCachePrefix = "products:v"
	CacheVersionKey        = "products:version"
)

// CachedProductRepository is a read-through Redis cache in front of another
// ProductRepository. Keys embed the catalog version so ReplaceAll can
// invalidate everything with a single INCR. Cache errors are logged and the
// inner repository is used instead.
type CachedProductRepository struct {
	inner  ProductRepository
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedProductRepository(inner ProductRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedProductRepository {
	return &CachedProductRepository{inner: inner, redis: client, ttl: ttl, logger: logger}
}

func (r *CachedProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	version, ok := r.version(ctx)
	if ok {
		if raw, err := r.redis.Get(ctx, r.productKey(version, id)).Bytes(); err == nil {
			var p models.Product
			if err := json.Unmarshal(raw, &p); err == nil {
				return &p, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			r.logger.Warn("product cache read failed", zap.Error(err), zap.String("product_id", id))
		}
	}

	p, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ok {
		r.store(ctx, map[string]interface{}{r.productKey(version, id): p})
	}
	return p, nil
}

func (r *CachedProductRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Product, error) {
	version, ok := r.version(ctx)
	if !ok || len(ids) == 0 {
		return r.inner.FindByIDs(ctx, ids)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productKey(version, id)
	}

	out := make(map[string]*models.Product, len(ids))
	missing := ids
	vals, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.Warn("product cache batch read failed", zap.Error(err))
	} else {
		missing = missing[:0:0]
		for i, v := range vals {
			s, isStr := v.(string)
			if !isStr {
				missing = append(missing, ids[i])
				continue
			}
			var p models.Product
			if err := json.Unmarshal([]byte(s), &p); err != nil {
				missing = append(missing, ids[i])
				continue
			}
			out[ids[i]] = &p
		}
	}

	if len(missing) == 0 {
		return out, nil
	}

	found, err := r.inner.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]interface{}, len(found))
	for id, p := range found {
		out[id] = p
		entries[r.productKey(version, id)] = p
	}
	r.store(ctx, entries)
	return out, nil
}

func (r *CachedProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	version, ok := r.version(ctx)
	key := fmt.Sprintf("%s%d:c:%s", ProductListCachePrefix, version, filter.Category)
	if ok {
		if raw, err := r.redis.Get(ctx, key).Bytes(); err == nil {
			var products []models.Product
			if err := json.Unmarshal(raw, &products); err == nil {
				return products, nil
			}
		}
	}

	products, err := r.inner.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if ok {
		r.store(ctx, map[string]interface{}{key: products})
	}
	return products, nil
}

// ReplaceAll writes through and then bumps the cache version.
func (r *CachedProductRepository) ReplaceAll(ctx context.Context, products []models.Product) ([]models.Product, error) {
	out, err := r.inner.ReplaceAll(ctx, products)
	if err != nil {
		return nil, err
	}
	if err := r.Invalidate(ctx); err != nil {
		r.logger.Error("failed to invalidate product cache", zap.Error(err))
	}
	return out, nil
}

// Invalidate bumps the catalog version, orphaning every cached entry.
func (r *CachedProductRepository) Invalidate(ctx context.Context) error {
	newVersion, err := r.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	r.logger.Info("product cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

func (r *CachedProductRepository) productKey(version int64, id string) string {
	return fmt.Sprintf("%sv%d:%s", ProductCachePrefix, version, id)
}

// version returns the current catalog version, initializing it on first use.
// ok is false when Redis is unavailable.
func (r *CachedProductRepository) version(ctx context.Context) (int64, bool) {
	ver, err := r.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver, true
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Warn("product cache unavailable", zap.Error(err))
		return 0, false
	}

	if err := r.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
		r.logger.Warn("failed to initialize product cache version", zap.Error(err))
		return 0, false
	}
	ver, err = r.redis.Get(ctx, CacheVersionKey).Int64()
	if err != nil || ver <= 0 {
		return 0, false
	}
	return ver, true
}

func (r *CachedProductRepository) store(ctx context.Context, entries map[string]interface{}) {
	if len(entries) == 0 {
		return
	}
	_, err := r.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, v := range entries {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			pipe.Set(ctx, key, data, r.ttl)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("product cache write failed", zap.Error(err))
	}
}
