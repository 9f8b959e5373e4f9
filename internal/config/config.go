package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPPort string

	// DBDriver selects postgres (production) or sqlite (local development).
	DBDriver          string
	SQLitePath        string
	PostgresHost      string
	PostgresPort      int
	PostgresUser      string
	PostgresPassword  string
	PostgresDB        string
	MigrationsDirPath string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers      []string
	ProductEventTopic string
	NotifyTopic       string
	FeedGroupID       string

	ProcessorBaseURL string
	ProcessorAPIKey  string
	Currency         string

	OTLPEndpoint string

	RequestTimeout  time.Duration
	StepTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	driver := getEnv("DB_DRIVER", "postgres")
	return &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		DBDriver:          driver,
		SQLitePath:        getEnv("SQLITE_PATH", "marketplace.db"),
		PostgresHost:      getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:      getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:      getEnv("POSTGRES_USER", "marketplace"),
		PostgresPassword:  getEnv("POSTGRES_PASSWORD", "marketplace"),
		PostgresDB:        getEnv("POSTGRES_DB", "marketplace"),
		MigrationsDirPath: getEnv("MIGRATIONS_DIR", "./migrations/"+driver),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers:      strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		ProductEventTopic: getEnv("PRODUCT_EVENT_TOPIC", "product-events"),
		NotifyTopic:       getEnv("NOTIFY_TOPIC", "order-confirmations"),
		FeedGroupID:       getEnv("FEED_GROUP_ID", "marketplace-feed"),

		ProcessorBaseURL: getEnv("PROCESSOR_BASE_URL", "https://api.stripe.com"),
		ProcessorAPIKey:  getEnv("STRIPE_SECRET_KEY", ""),
		Currency:         getEnv("CURRENCY", "INR"),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", "localhost:4318"),

		RequestTimeout:  30 * time.Second,
		StepTimeout:     10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
