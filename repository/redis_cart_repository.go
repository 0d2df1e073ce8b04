package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-service/models"

	"github.com/redis/go-redis/v9"
)

// RedisCartRepository stores each cart as a JSON value under
// cart:user:<id>. Every save refreshes the TTL.
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{client: client, ttl: ttl}
}

func (r *RedisCartRepository) getKey(userID string) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

func (r *RedisCartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := r.Find(ctx, userID)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return cart, err
	}

	now := time.Now().UTC()
	cart = models.NewCart(userID)
	cart.Version = 1
	cart.CreatedAt = now
	cart.UpdatedAt = now

	data, err := json.Marshal(cart)
	if err != nil {
		return nil, err
	}
	created, err := r.client.SetNX(ctx, r.getKey(userID), data, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	if !created {
		return r.Find(ctx, userID)
	}
	return cart, nil
}

func (r *RedisCartRepository) Find(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.getKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return decodeCart(data)
}

func (r *RedisCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	key := r.getKey(cart.UserID)

	next := cart.Clone()
	next.Version++
	next.UpdatedAt = time.Now().UTC()
	if next.CreatedAt.IsZero() {
		next.CreatedAt = next.UpdatedAt
	}
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if cart.Version != 0 {
				return ErrVersionConflict
			}
		case err != nil:
			return err
		default:
			stored, err := decodeCart(raw)
			if err != nil {
				return err
			}
			if cart.Version == 0 || stored.Version != cart.Version {
				return ErrVersionConflict
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionConflict
	}
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("save cart: %w", err)
	}

	cart.Version = next.Version
	cart.CreatedAt = next.CreatedAt
	cart.UpdatedAt = next.UpdatedAt
	return nil
}

func decodeCart(data []byte) (*models.Cart, error) {
	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}
