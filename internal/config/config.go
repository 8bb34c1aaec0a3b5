package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fernholt/storefront/pkg/database"
	"github.com/fernholt/storefront/pkg/money"
)

// PricingConfig holds the constants consumed by the pricing engine.
type PricingConfig struct {
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold money.Cents
	// TaxRateBasisPoints is the regional tax rate, 875 = 8.75%.
	TaxRateBasisPoints int64
}

// ShippingConfig holds the external rate source settings.
type ShippingConfig struct {
	RateSourceURL string
	Timeout       time.Duration
}

// InventoryConfig holds inventory defaults.
type InventoryConfig struct {
	// DefaultLowStockThreshold applies to levels created via INITIAL_STOCK
	// when the request does not carry its own threshold.
	DefaultLowStockThreshold int
	// AdjustmentRetries bounds the optimistic concurrency retry loop.
	AdjustmentRetries int
}

// Config is the full storefront-core configuration.
type Config struct {
	ServiceName  string
	Environment  string
	LogLevel     string
	HTTPPort     string
	Database     database.Config
	KafkaBrokers []string
	RedisAddr    string
	Pricing      PricingConfig
	Shipping     ShippingConfig
	Inventory    InventoryConfig
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "storefront-core"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnv("HTTP_PORT", "8082"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "storefrontdb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		KafkaBrokers: splitHosts(getEnv("KAFKA_BROKERS", "")),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		Pricing: PricingConfig{
			FreeShippingThreshold: getEnvCents("FREE_SHIPPING_THRESHOLD", "75.00"),
			TaxRateBasisPoints:    getEnvInt64("TAX_RATE_BASIS_POINTS", 875),
		},
		Shipping: ShippingConfig{
			RateSourceURL: getEnv("SHIPPING_RATE_URL", ""),
			Timeout:       getEnvDuration("SHIPPING_RATE_TIMEOUT", 3*time.Second),
		},
		Inventory: InventoryConfig{
			DefaultLowStockThreshold: int(getEnvInt64("LOW_STOCK_THRESHOLD", 5)),
			AdjustmentRetries:        int(getEnvInt64("ADJUSTMENT_RETRIES", 3)),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvCents(key, defaultValue string) money.Cents {
	raw := getEnv(key, defaultValue)
	amount, err := money.ParseDecimal(raw)
	if err != nil {
		amount, _ = money.ParseDecimal(defaultValue)
	}
	return amount
}

func splitHosts(raw string) []string {
	if raw == "" {
		return nil
	}
	var hosts []string
	for _, host := range strings.Split(raw, ",") {
		if host = strings.TrimSpace(host); host != "" {
			hosts = append(hosts, host)
		}
	}
	return hosts
}
