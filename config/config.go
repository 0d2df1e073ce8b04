package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	aws_pkg "storefront-service/pkg/aws"

	"github.com/joho/godotenv"
)

const (
	CartStoreMongo    = "mongo"
	CartStoreRedis    = "redis"
	CartStoreDynamoDB = "dynamodb"
	CartStoreMemory   = "memory"

	CatalogStoreMongo  = "mongo"
	CatalogStoreMemory = "memory"

	GuestModeSession = "session"
	GuestModeShared  = "shared"

	PricingCatalog = "catalog"
	PricingClient  = "client"

	EventSinkNone  = "none"
	EventSinkKafka = "kafka"
	EventSinkSNS   = "sns"
	EventSinkSQS   = "sqs"

	defaultMongoURI = "mongodb://localhost:27017/vibe-commerce"
	defaultDBName   = "vibe-commerce"
)

// Config holds all environment configuration for the storefront service.
type Config struct {
	AppEnv string
	Port   string

	MongoURI    string
	MongoDBName string
	RedisURL    string

	CartStore       string
	CatalogStore    string
	CartTTL         time.Duration
	CatalogCacheTTL time.Duration
	DDBTableCarts   string

	GuestMode       string
	CheckoutPricing string

	EventSink           string
	KafkaBrokers        []string
	KafkaTopic          string
	CheckoutSNSTopicARN string
	CheckoutSQSQueueURL string

	RequestTimeout     time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
	AllowedOrigins     []string

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string
}

// Load reads configuration from the environment (and an optional .env file).
// With AWS_USE_SECRETS=true the connection strings are overridden from
// Secrets Manager.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		ApplySecrets(ctx, cfg, aws_pkg.NewSecretsClient(awsCfg))
	}

	return cfg, cfg.Validate()
}

// FromEnv builds a Config from process environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "5001"),
		MongoURI:            getEnv("MONGODB_URI", defaultMongoURI),
		MongoDBName:         os.Getenv("MONGODB_DB"),
		RedisURL:            os.Getenv("REDIS_URL"),
		CartStore:           strings.ToLower(getEnv("CART_STORE", CartStoreMongo)),
		CatalogStore:        strings.ToLower(getEnv("CATALOG_STORE", CatalogStoreMongo)),
		DDBTableCarts:       getEnv("DDB_TABLE_CARTS", "Carts"),
		GuestMode:           strings.ToLower(getEnv("GUEST_MODE", GuestModeShared)),
		CheckoutPricing:     strings.ToLower(getEnv("CHECKOUT_PRICING", PricingCatalog)),
		EventSink:           strings.ToLower(getEnv("EVENT_SINK", EventSinkNone)),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:          getEnv("KAFKA_TOPIC", "checkout.completed"),
		CheckoutSNSTopicARN: os.Getenv("CHECKOUT_SNS_TOPIC_ARN"),
		CheckoutSQSQueueURL: os.Getenv("CHECKOUT_SQS_QUEUE_URL"),
		AllowedOrigins:      splitList(os.Getenv("ALLOWED_ORIGINS")),
		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "Storefront"),
		CloudWatchLogGroup:  getEnv("CLOUDWATCH_LOG_GROUP", "/storefront/services"),
	}

	var err error
	if cfg.CartTTL, err = getDuration("CART_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.CatalogCacheTTL, err = getDuration("CATALOG_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 50); err != nil {
		return nil, err
	}

	if cfg.MongoDBName == "" {
		cfg.MongoDBName = DatabaseFromURI(cfg.MongoURI)
	}

	return cfg, nil
}

// ApplySecrets overrides connection strings with values from secrets.
// Missing or unreadable secrets leave the environment values in place.
func ApplySecrets(ctx context.Context, cfg *Config, secrets aws_pkg.SecretGetter) {
	if v, err := secrets.GetSecret(ctx, "storefront/MONGODB_URI"); err == nil && v != "" {
		cfg.MongoURI = v
		if os.Getenv("MONGODB_DB") == "" {
			cfg.MongoDBName = DatabaseFromURI(v)
		}
	}
	if v, err := secrets.GetSecret(ctx, "storefront/REDIS_URL"); err == nil && v != "" {
		cfg.RedisURL = v
	}
}

// Validate rejects unknown modes and incomplete combinations.
func (c *Config) Validate() error {
	switch c.CartStore {
	case CartStoreMongo, CartStoreDynamoDB, CartStoreMemory:
	case CartStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("CART_STORE=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown CART_STORE %q", c.CartStore)
	}

	switch c.CatalogStore {
	case CatalogStoreMongo, CatalogStoreMemory:
	default:
		return fmt.Errorf("unknown CATALOG_STORE %q", c.CatalogStore)
	}

	switch c.GuestMode {
	case GuestModeSession, GuestModeShared:
	default:
		return fmt.Errorf("unknown GUEST_MODE %q", c.GuestMode)
	}

	switch c.CheckoutPricing {
	case PricingCatalog, PricingClient:
	default:
		return fmt.Errorf("unknown CHECKOUT_PRICING %q", c.CheckoutPricing)
	}

	switch c.EventSink {
	case EventSinkNone:
	case EventSinkKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("EVENT_SINK=kafka requires KAFKA_BROKERS")
		}
	case EventSinkSNS:
		if c.CheckoutSNSTopicARN == "" {
			return fmt.Errorf("EVENT_SINK=sns requires CHECKOUT_SNS_TOPIC_ARN")
		}
	case EventSinkSQS:
		if c.CheckoutSQSQueueURL == "" {
			return fmt.Errorf("EVENT_SINK=sqs requires CHECKOUT_SQS_QUEUE_URL")
		}
	default:
		return fmt.Errorf("unknown EVENT_SINK %q", c.EventSink)
	}

	if c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

// UsesMongo reports whether any store needs a Mongo connection.
func (c *Config) UsesMongo() bool {
	return c.CartStore == CartStoreMongo || c.CatalogStore == CatalogStoreMongo
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DatabaseFromURI returns the database named in a Mongo URI path.
func DatabaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDBName
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultDBName
}
