package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoCartRepository_Integration(t *testing.T) {
	if os.Getenv("RUN_MONGO_INTEGRATION") != "true" {
		t.Skip("set RUN_MONGO_INTEGRATION=true to run against a live MongoDB")
	}
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	db := client.Database(fmt.Sprintf("storefront_test_%d", time.Now().UnixNano()))
	defer db.Drop(context.Background())

	_, err = db.Collection("carts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	require.NoError(t, err)

	testCartRepository(t, NewMongoCartRepository(db), "")
}

func TestRedisCartRepository_Integration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if os.Getenv("RUN_REDIS_INTEGRATION") != "true" || url == "" {
		t.Skip("set RUN_REDIS_INTEGRATION=true and REDIS_URL to run")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	testCartRepository(t, NewRedisCartRepository(client, time.Minute), uuid.NewString()+"-")
}
