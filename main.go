package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/controllers"
	"storefront-service/database"
	apperrors "storefront-service/errors"
	"storefront-service/events"
	"storefront-service/logger"
	"storefront-service/middleware"
	aws_pkg "storefront-service/pkg/aws"
	"storefront-service/repository"
	"storefront-service/routes"
	"storefront-service/services"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "storefront-service"

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	// AWS config is only loaded when some component needs it.
	var awsCfg *sdkaws.Config
	loadAWS := func() sdkaws.Config {
		if awsCfg == nil {
			c, err := aws_pkg.LoadAWSConfig(ctx)
			if err != nil {
				panic("failed to load AWS config: " + err.Error())
			}
			awsCfg = &c
		}
		return *awsCfg
	}

	var logSink io.Writer
	if cfg.CloudWatchEnabled {
		w, err := aws_pkg.NewCloudWatchLogsWriter(ctx, loadAWS(), cfg.CloudWatchLogGroup, serviceName)
		if err != nil {
			panic("failed to create CloudWatch logs writer: " + err.Error())
		}
		logSink = w
	}

	log, err := logger.New(cfg.AppEnv, logSink)
	if err != nil {
		panic(err.Error())
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	// --- Stores ---
	var mongoDB *database.Mongo
	if cfg.UsesMongo() {
		mongoDB, err = database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName, log)
		if err != nil {
			log.Fatal("MongoDB connection failed", zap.Error(err))
		}
		if err := mongoDB.EnsureIndexes(ctx); err != nil {
			log.Fatal("MongoDB index setup failed", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Redis connection failed", zap.Error(err))
		}
		log.Info("Connected to Redis")
	}

	var productRepo repository.ProductRepository
	switch cfg.CatalogStore {
	case config.CatalogStoreMemory:
		productRepo = repository.NewMemoryProductRepository(repository.DefaultProducts()...)
	default:
		productRepo = repository.NewMongoProductRepository(mongoDB.DB)
	}
	if redisClient != nil {
		productRepo = repository.NewCachedProductRepository(productRepo, redisClient, cfg.CatalogCacheTTL, log)
	}

	var cartRepo repository.CartRepository
	switch cfg.CartStore {
	case config.CartStoreRedis:
		cartRepo = repository.NewRedisCartRepository(redisClient, cfg.CartTTL)
	case config.CartStoreDynamoDB:
		ddb := database.NewDynamoClient(loadAWS())
		if err := database.EnsureCartsTable(ctx, ddb, cfg.DDBTableCarts); err != nil {
			log.Fatal("DynamoDB table setup failed", zap.Error(err))
		}
		cartRepo = repository.NewDynamoCartRepository(ddb, cfg.DDBTableCarts, cfg.CartTTL)
	case config.CartStoreMemory:
		cartRepo = repository.NewMemoryCartRepository()
	default:
		cartRepo = repository.NewMongoCartRepository(mongoDB.DB)
	}
	log.Info("Stores configured",
		zap.String("cart_store", cfg.CartStore),
		zap.String("catalog_store", cfg.CatalogStore),
		zap.Bool("catalog_cache", redisClient != nil),
	)

	// --- Checkout events ---
	var publisher services.CheckoutPublisher
	var kafkaPublisher *events.KafkaPublisher
	switch cfg.EventSink {
	case config.EventSinkKafka:
		kafkaPublisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher = kafkaPublisher
	case config.EventSinkSNS:
		publisher = events.NewSNSPublisher(aws_pkg.NewSNSClient(loadAWS()), cfg.CheckoutSNSTopicARN)
	case config.EventSinkSQS:
		publisher = events.NewSQSPublisher(aws_pkg.NewSQSClient(loadAWS(), cfg.CheckoutSQSQueueURL))
	}

	var metrics aws_pkg.MetricsRecorder
	if cfg.CloudWatchEnabled {
		metrics = aws_pkg.NewMetricsClient(loadAWS(), cfg.CloudWatchNamespace, true)
	}

	// --- Dependency injection ---
	cartService := services.NewCartService(cartRepo, productRepo, log)
	checkoutService := services.NewCheckoutService(cartRepo, productRepo, publisher, metrics, services.PricingMode(cfg.CheckoutPricing), log)
	productService := services.NewProductService(productRepo, log)

	// --- HTTP router ---
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitPerMinute), cfg.RateLimitBurst, 5*time.Minute)
	defer limiter.Stop()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		logger.RequestID(),
		middleware.RequestLogger(log),
		middleware.SecurityHeaders(),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
		middleware.RateLimitMiddleware(limiter),
		middleware.Timeout(cfg.RequestTimeout),
		middleware.MetricsMiddleware(metrics, serviceName),
		apperrors.ErrorMiddleware(log),
		middleware.Identity(cfg.GuestMode),
	)

	routes.RegisterRoutes(r,
		controllers.NewProductController(productService),
		controllers.NewCartController(cartService),
		controllers.NewCheckoutController(checkoutService),
	)

	// --- HTTP server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Storefront service started",
			zap.String("port", cfg.Port),
			zap.String("guest_mode", cfg.GuestMode),
			zap.String("checkout_pricing", cfg.CheckoutPricing),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("Kafka writer close error", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Redis close error", zap.Error(err))
		}
	}
	if mongoDB != nil {
		if err := mongoDB.Close(); err != nil {
			log.Error("MongoDB close error", zap.Error(err))
		}
	}

	log.Info("Storefront service stopped gracefully")
}
