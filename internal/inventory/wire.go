//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/fernholt/storefront/internal/config"
	"github.com/fernholt/storefront/internal/inventory/delivery/http"
	"github.com/fernholt/storefront/internal/inventory/domain"
	"github.com/fernholt/storefront/internal/inventory/repository"
	"github.com/fernholt/storefront/internal/inventory/usecase/command"
	"github.com/fernholt/storefront/internal/inventory/usecase/query"
	"github.com/fernholt/storefront/kafka"
	"github.com/fernholt/storefront/pkg/metrics"
)

// ProvideLedgerRepository provides the ledger repository with tracing
func ProvideLedgerRepository(db *gorm.DB, cfg config.InventoryConfig, m *metrics.StorefrontMetrics) domain.LedgerRepository {
	base := repository.NewGormLedgerRepository(db).
		WithDefaults(cfg.AdjustmentRetries, cfg.DefaultLowStockThreshold).
		WithMetrics(m)
	return repository.NewTracedLedgerRepository(base)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideLedgerRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewAdjustStockHandler,
	command.NewBulkAdjustHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetLevelHandler,
	query.NewListLowStockHandler,
	query.NewListOutOfStockHandler,
	query.NewListHistoryHandler,
	query.NewVerifyLedgerHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, cfg config.InventoryConfig, publisher *kafka.Publisher, m *metrics.StorefrontMetrics) (*http.InventoryHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewInventoryHandler,
	)
	return nil, nil
}
