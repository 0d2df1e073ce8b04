package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRun_ReturnsConnectError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := run(ctx, options{mongoURI: "mongodb://127.0.0.1:1/seed-test?serverSelectionTimeoutMS=200&connectTimeoutMS=200"}, zap.NewNop())
	assert.ErrorContains(t, err, "mongo connect")
}

func TestEnvOr(t *testing.T) {
	t.Setenv("SEED_TEST_VALUE", "")
	assert.Equal(t, "fallback", envOr("SEED_TEST_VALUE", "fallback"))

	t.Setenv("SEED_TEST_VALUE", "set")
	assert.Equal(t, "set", envOr("SEED_TEST_VALUE", "fallback"))
}
