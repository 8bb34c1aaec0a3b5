package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics holds the Prometheus collectors for the inventory
// ledger and checkout paths.
type StorefrontMetrics struct {
	AdjustmentsTotal  *prometheus.CounterVec
	VersionConflicts  prometheus.Counter
	ClampedSales      prometheus.Counter
	CheckoutsTotal    *prometheus.CounterVec
	CompensationsRuns prometheus.Counter
	ShippingFallbacks prometheus.Counter
}

// New registers and returns the storefront metric set.
func New() *StorefrontMetrics {
	m := &StorefrontMetrics{
		AdjustmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "inventory",
			Name:      "adjustments_total",
			Help:      "Total number of stock adjustments by kind and outcome.",
		}, []string{"kind", "outcome"}),
		VersionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "inventory",
			Name:      "version_conflicts_total",
			Help:      "Total number of optimistic lock conflicts during adjustments.",
		}),
		ClampedSales: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "inventory",
			Name:      "clamped_sales_total",
			Help:      "Total number of sale adjustments clamped at zero stock.",
		}),
		CheckoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "checkout",
			Name:      "orders_total",
			Help:      "Total number of checkout attempts by outcome.",
		}, []string{"outcome"}),
		CompensationsRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "checkout",
			Name:      "compensations_total",
			Help:      "Total number of saga compensation runs after a failed checkout.",
		}),
		ShippingFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "shipping",
			Name:      "rate_fallbacks_total",
			Help:      "Total number of times the static rate table was used.",
		}),
	}

	prometheus.MustRegister(
		m.AdjustmentsTotal,
		m.VersionConflicts,
		m.ClampedSales,
		m.CheckoutsTotal,
		m.CompensationsRuns,
		m.ShippingFallbacks,
	)
	return m
}
