package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecret(_ context.Context, name string) (string, error) {
	if v, ok := f[name]; ok {
		return v, nil
	}
	return "", errors.New("secret not found")
}

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"MONGODB_URI", "MONGODB_DB", "CART_STORE", "GUEST_MODE", "EVENT_SINK", "CART_TTL", "PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "vibe-commerce", cfg.MongoDBName)
	assert.Equal(t, CartStoreMongo, cfg.CartStore)
	assert.Equal(t, GuestModeShared, cfg.GuestMode)
	assert.Equal(t, PricingCatalog, cfg.CheckoutPricing)
	assert.Zero(t, cfg.CartTTL)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_DatabaseNameFromURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db.internal:27017/shop?retryWrites=true")
	t.Setenv("MONGODB_DB", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.MongoDBName)
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestValidate_RejectsIncompleteCombinations(t *testing.T) {
	t.Setenv("CART_STORE", "redis")
	t.Setenv("REDIS_URL", "")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "REDIS_URL")

	t.Setenv("CART_STORE", "mongo")
	t.Setenv("EVENT_SINK", "kafka")
	t.Setenv("KAFKA_BROKERS", "")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "KAFKA_BROKERS")

	t.Setenv("EVENT_SINK", "carrier-pigeon")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestFromEnv_ParsesLists(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestApplySecrets(t *testing.T) {
	t.Setenv("MONGODB_DB", "")
	cfg := &Config{MongoURI: "mongodb://localhost:27017/vibe-commerce", MongoDBName: "vibe-commerce", RedisURL: "redis://local:6379"}

	ApplySecrets(context.Background(), cfg, fakeSecrets{
		"storefront/MONGODB_URI": "mongodb://prod:27017/storefront",
	})

	assert.Equal(t, "mongodb://prod:27017/storefront", cfg.MongoURI)
	assert.Equal(t, "storefront", cfg.MongoDBName)
	assert.Equal(t, "redis://local:6379", cfg.RedisURL)
}
