package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	catalogdomain "github.com/fernholt/storefront/internal/catalog/domain"
	"github.com/fernholt/storefront/internal/checkout"
	checkoutdomain "github.com/fernholt/storefront/internal/checkout/domain"
	"github.com/fernholt/storefront/internal/config"
	"github.com/fernholt/storefront/internal/inventory"
	httpDelivery "github.com/fernholt/storefront/internal/inventory/delivery/http"
	inventorydomain "github.com/fernholt/storefront/internal/inventory/domain"
	"github.com/fernholt/storefront/internal/pricing"
	"github.com/fernholt/storefront/internal/pricing/engine"
	"github.com/fernholt/storefront/internal/shipping"
	"github.com/fernholt/storefront/kafka"
	"github.com/fernholt/storefront/pkg/database"
	"github.com/fernholt/storefront/pkg/logger"
	"github.com/fernholt/storefront/pkg/metrics"
	"github.com/fernholt/storefront/pkg/tracing"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	isDevelopment := cfg.Environment == "development"
	logger.Init(cfg.ServiceName, isDevelopment)
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting storefront service")

	// Initialize tracer
	tp, err := tracing.InitTracer(cfg.ServiceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Connect to database
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	err = db.AutoMigrate(
		&inventorydomain.StockLevel{},
		&inventorydomain.AdjustmentRecord{},
		&catalogdomain.Product{},
		&checkoutdomain.Order{},
		&checkoutdomain.OrderItem{},
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Prometheus collectors
	m := metrics.New()

	// Kafka publisher is optional; without brokers the nil publisher is a
	// no-op and events are skipped.
	var publisher *kafka.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to initialize Kafka publisher, events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Shipping rate source: HTTP upstream when configured, Redis quote
	// cache when available, static zone table as the always-on fallback.
	rates := buildRateSource(cfg, m)

	engineCfg := engine.Config{
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		TaxRateBasisPoints:    cfg.Pricing.TaxRateBasisPoints,
	}

	// Initialize handlers with Wire DI
	inventoryHandler, err := inventory.InitializeHTTPHandler(db, cfg.Inventory, publisher, m)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize inventory handler")
	}

	pricingHandler, err := pricing.InitializeHTTPHandler(db, engineCfg, rates)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize pricing handler")
	}

	checkoutHandler, err := checkout.InitializeHTTPHandler(db, cfg.Inventory, engineCfg, rates, publisher, m)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize checkout handler")
	}

	// Setup router
	router := mux.NewRouter()

	middlewareConfig := httpDelivery.DefaultMiddlewareConfig()
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	inventoryHandler.RegisterRoutes(router)
	pricingHandler.RegisterRoutes(router)
	checkoutHandler.RegisterRoutes(router)

	inventoryHandler.RegisterHealthCheck(router, sqlDB)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	corsHandler := httpDelivery.SetupCORS(middlewareConfig)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: corsHandler(router),
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Forced server shutdown")
	}
}

func buildRateSource(cfg *config.Config, m *metrics.StorefrontMetrics) shipping.RateSource {
	var primary shipping.RateSource
	if cfg.Shipping.RateSourceURL != "" {
		primary = shipping.NewHTTPRateSource(cfg.Shipping.RateSourceURL, cfg.Shipping.Timeout)

		if cfg.RedisAddr != "" {
			redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			primary = shipping.NewCachedRateSource(primary, redisClient, 5*time.Minute)
			logger.Logger.Info().Str("redis", cfg.RedisAddr).Msg("Shipping quote cache enabled")
		}
	}

	return shipping.NewFallbackRateSource(primary, shipping.DefaultRateTable()).
		OnFallback(m.ShippingFallbacks.Inc)
}
