//go:build wireinject
// +build wireinject

package checkout

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/fernholt/storefront/internal/checkout/delivery/http"
	"github.com/fernholt/storefront/internal/checkout/domain"
	"github.com/fernholt/storefront/internal/checkout/repository"
	"github.com/fernholt/storefront/internal/checkout/usecase"
	"github.com/fernholt/storefront/internal/config"
	"github.com/fernholt/storefront/internal/inventory"
	"github.com/fernholt/storefront/internal/pricing"
	"github.com/fernholt/storefront/internal/pricing/engine"
	"github.com/fernholt/storefront/internal/shipping"
	"github.com/fernholt/storefront/kafka"
	"github.com/fernholt/storefront/pkg/metrics"
)

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) domain.OrderRepository {
	return repository.NewGormOrderRepository(db)
}

// Wire sets
var CheckoutSet = wire.NewSet(
	ProvideOrderRepository,
	inventory.ProvideLedgerRepository,
	pricing.ProvidePriceSource,
	pricing.ProvideResolver,
	engine.New,
	usecase.NewPlaceOrderHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, invCfg config.InventoryConfig, engineCfg engine.Config, rates shipping.RateSource, publisher *kafka.Publisher, m *metrics.StorefrontMetrics) (*http.CheckoutHandler, error) {
	wire.Build(
		CheckoutSet,
		http.NewCheckoutHandler,
	)
	return nil, nil
}
