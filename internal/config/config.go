package config

import (
	"os"
	"strconv"
	"time"

	"mela/internal/cart"
	"mela/internal/database"
	"mela/internal/external"
	"mela/internal/messaging"
	"mela/internal/search"
)

// Storage driver names.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// StoreDriver selects the primary storage backend, CartStore the cart
	// backend. The memory drivers exist for local development and tests.
	StoreDriver string
	CartStore   string

	NATSEnabled   bool
	SearchEnabled bool

	// PaymentMode selects between the real HTTP provider and the simulated
	// gateway.
	PaymentMode string

	Database database.Config
	Redis    cart.RedisConfig
	NATS     messaging.Config
	Search   search.Config
	Payment  external.PaymentConfig
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		StoreDriver: getEnv("STORE_DRIVER", DriverPostgres),
		CartStore:   getEnv("CART_STORE", "redis"),

		NATSEnabled:   getEnv("NATS_ENABLED", "true") == "true",
		SearchEnabled: getEnv("SEARCH_ENABLED", "false") == "true",

		PaymentMode: getEnv("PAYMENT_MODE", "simulated"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "mela"),
			Password:           getEnv("DB_PASSWORD", "mela123"),
			DBName:             getEnv("DB_NAME", "mela"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		Redis: cart.RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "mela"),
			ClientID:  getEnv("NATS_CLIENT_ID", "mela-api"),
		},

		Search: search.Config{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "events"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		Payment: external.PaymentConfig{
			BaseURL:     getEnv("PAYMENT_GATEWAY_URL", "http://localhost:9000"),
			Timeout:     time.Duration(getEnvInt("PAYMENT_TIMEOUT_SEC", 30)) * time.Second,
			DeclineRate: getEnvFloat("PAYMENT_DECLINE_RATE", 0),
		},
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
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
