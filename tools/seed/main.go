// Command seed replaces the product catalog with the default product set.
//
//	go run ./tools/seed -mongo mongodb://localhost:27017/vibe-commerce
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"storefront-service/config"
	"storefront-service/database"
	"storefront-service/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type options struct {
	mongoURI string
	dbName   string
	redisURL string
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.mongoURI, "mongo", envOr("MONGODB_URI", "mongodb://localhost:27017/vibe-commerce"), "MongoDB URI")
	flag.StringVar(&opts.dbName, "db", os.Getenv("MONGODB_DB"), "MongoDB database name (defaults to the URI's database)")
	flag.StringVar(&opts.redisURL, "redis", os.Getenv("REDIS_URL"), "Redis URL; when set the catalog cache is invalidated")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}

	if err := run(context.Background(), opts, log); err != nil {
		log.Error("seeding failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(ctx context.Context, opts options, log *zap.Logger) error {
	if opts.dbName == "" {
		opts.dbName = config.DatabaseFromURI(opts.mongoURI)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	mongoDB, err := database.ConnectMongo(ctx, opts.mongoURI, opts.dbName, log)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer mongoDB.Close()

	if err := mongoDB.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	var repo repository.ProductRepository = repository.NewMongoProductRepository(mongoDB.DB)
	if opts.redisURL != "" {
		client, err := database.NewRedisClient(ctx, opts.redisURL)
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer client.Close()
		repo = repository.NewCachedProductRepository(repo, client, 5*time.Minute, log)
	}

	seeded, err := repo.ReplaceAll(ctx, repository.DefaultProducts())
	if err != nil {
		return fmt.Errorf("replace products: %w", err)
	}

	for _, p := range seeded {
		log.Debug("seeded product", zap.String("id", p.ID), zap.String("name", p.Name))
	}
	log.Info("Seeded products successfully", zap.Int("count", len(seeded)), zap.String("database", opts.dbName))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
