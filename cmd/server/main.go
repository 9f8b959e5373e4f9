package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/cache"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/checkout"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/config"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/feed"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/httpapi"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/notify"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/payment"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/repository"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/telemetry"
)

func main() {
	cfg := config.Load()

	logger, err := telemetry.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, "marketplace-api", cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	} else {
		defer shutdownTracer(context.Background())
	}

	// Database
	var repo *repository.Repository
	switch cfg.DBDriver {
	case "sqlite":
		repo, err = repository.NewSQLite(cfg.SQLitePath)
	default:
		repo, err = repository.NewPostgres(&repository.Credentials{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPassword,
			DBName:   cfg.PostgresDB,
		})
	}
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsDirPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database ready", zap.String("driver", cfg.DBDriver))

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	redisCache := cache.NewRedisCache(redisClient)

	// Kafka
	publisher := feed.NewPublisher(cfg.ProductEventTopic, logger, cfg.KafkaBrokers...)
	defer publisher.Close()
	notifier := notify.NewKafkaNotifier(cfg.NotifyTopic, logger, cfg.KafkaBrokers...)
	defer notifier.Close()

	reducer := feed.NewReducer()
	consumer := feed.NewConsumer(reducer, cfg.ProductEventTopic, cfg.FeedGroupID, logger, cfg.KafkaBrokers...)
	defer consumer.Close()
	go consumer.Run(ctx)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := telemetry.NewMetrics(registry)

	// Payment processor
	processor := payment.NewClient(cfg.ProcessorBaseURL, cfg.ProcessorAPIKey, cfg.StepTimeout, logger)

	checkoutService := checkout.NewService(
		repo, repo, repo,
		processor,
		redisCache,
		notifier,
		metrics,
		logger,
		cfg.Currency,
		cfg.StepTimeout,
	)

	handlers := httpapi.Handlers{
		Charge:   httpapi.NewChargeHandler(processor, metrics, logger, cfg.StepTimeout),
		Checkout: httpapi.NewCheckoutHandler(checkoutService, logger),
		Markets:  httpapi.NewMarketHandler(repo, repo, redisCache, metrics, logger, cfg.StepTimeout),
		Products: httpapi.NewProductHandler(repo, repo, redisCache, publisher, reducer, logger, cfg.StepTimeout),
		Orders:   httpapi.NewOrderHandler(repo, logger, cfg.StepTimeout),
		Users:    httpapi.NewUserHandler(repo, logger, cfg.StepTimeout),
	}

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: httpapi.NewRouter(handlers, repo, registry, cfg.RequestTimeout),
	}

	go func() {
		logger.Info("marketplace api starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("server exited")
}
