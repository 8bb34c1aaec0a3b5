//go:build wireinject
// +build wireinject

package pricing

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	catalogdomain "github.com/fernholt/storefront/internal/catalog/domain"
	catalogrepo "github.com/fernholt/storefront/internal/catalog/repository"
	"github.com/fernholt/storefront/internal/pricing/delivery/http"
	"github.com/fernholt/storefront/internal/pricing/engine"
	"github.com/fernholt/storefront/internal/pricing/resolver"
	"github.com/fernholt/storefront/internal/shipping"
)

// ProvidePriceSource provides the catalog price source
func ProvidePriceSource(db *gorm.DB) catalogdomain.PriceSource {
	return catalogrepo.NewGormCatalogRepository(db)
}

// ProvideResolver provides the discount resolver with the built-in registry
func ProvideResolver() *resolver.Resolver {
	return resolver.NewResolver(resolver.DefaultRegistry())
}

// Wire sets
var PricingSet = wire.NewSet(
	ProvidePriceSource,
	ProvideResolver,
	engine.New,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, engineCfg engine.Config, rates shipping.RateSource) (*http.PricingHandler, error) {
	wire.Build(
		PricingSet,
		http.NewPricingHandler,
	)
	return nil, nil
}
