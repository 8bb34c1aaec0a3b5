package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	catalog "github.com/fernholt/storefront/internal/catalog/domain"
	"github.com/fernholt/storefront/internal/checkout/domain"
	inventory "github.com/fernholt/storefront/internal/inventory/domain"
	pricing "github.com/fernholt/storefront/internal/pricing/domain"
	"github.com/fernholt/storefront/internal/pricing/engine"
	"github.com/fernholt/storefront/internal/pricing/resolver"
	"github.com/fernholt/storefront/internal/shipping"
	"github.com/fernholt/storefront/pkg/logger"
	"github.com/fernholt/storefront/pkg/metrics"
)

// compensationTimeout bounds the detached RETURN adjustments issued after
// a failed checkout.
const compensationTimeout = 10 * time.Second

// OrderLineRequest is one requested cart line. Only product and quantity
// come from the client; prices are resolved server-side.
type OrderLineRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// PlaceOrderCommand represents a checkout submission.
type PlaceOrderCommand struct {
	CustomerID   string
	DiscountCode string
	Destination  shipping.Destination
	Items        []OrderLineRequest
}

// PlaceOrderHandler composes the inventory service and pricing engine
// into a single order-creation flow. It is the only component spanning
// both domains. Stock decrements that cannot complete in full are undone
// with RETURN compensations before the error surfaces: checkout either
// succeeds with a confirmed order or fails with no visible decrement.
type PlaceOrderHandler struct {
	ledger   inventory.LedgerRepository
	prices   catalog.PriceSource
	resolver *resolver.Resolver
	engine   *engine.Engine
	rates    shipping.RateSource
	orders   domain.OrderRepository
	metrics  *metrics.StorefrontMetrics
}

// NewPlaceOrderHandler creates a new checkout handler
func NewPlaceOrderHandler(
	ledger inventory.LedgerRepository,
	prices catalog.PriceSource,
	discountResolver *resolver.Resolver,
	pricingEngine *engine.Engine,
	rates shipping.RateSource,
	orders domain.OrderRepository,
	m *metrics.StorefrontMetrics,
) *PlaceOrderHandler {
	return &PlaceOrderHandler{
		ledger:   ledger,
		prices:   prices,
		resolver: discountResolver,
		engine:   pricingEngine,
		rates:    rates,
		orders:   orders,
		metrics:  m,
	}
}

// Handle executes the checkout.
func (h *PlaceOrderHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if cmd.CustomerID == "" {
		return nil, fmt.Errorf("customer_id is required")
	}
	for _, item := range cmd.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	// Re-resolve the discount server-side; a client-supplied discount
	// amount is never trusted.
	var discount *pricing.DiscountDescriptor
	if cmd.DiscountCode != "" {
		resolved := h.resolver.Resolve(cmd.DiscountCode)
		discount = &resolved
	}

	// Price the cart from catalog prices.
	cart := pricing.CartSnapshot{Lines: make([]pricing.CartLine, 0, len(cmd.Items))}
	for _, item := range cmd.Items {
		unitPrice, err := h.prices.UnitPrice(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, pricing.CartLine{
			ProductID: item.ProductID,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
		})
	}

	// The rate source composition absorbs upstream failures, so checkout
	// never blocks on the carrier collaborator.
	quote, err := h.rates.Quote(ctx, cmd.Destination)
	if err != nil {
		return nil, fmt.Errorf("failed to quote shipping: %w", err)
	}

	result := h.engine.ComputeTotal(cart, discount, quote)

	// Decrement stock line by line. Customer orders are all-or-nothing:
	// any NotFound or clamped line aborts the order and compensates the
	// decrements already applied.
	applied := make([]appliedLine, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		_, record, err := h.ledger.ApplyAdjustment(ctx, item.ProductID, inventory.KindSale, item.Quantity, "order", cmd.CustomerID)
		if err != nil {
			h.compensate(ctx, applied, cmd.CustomerID)
			return nil, err
		}

		if fulfilled := -record.Delta; fulfilled < item.Quantity {
			// The clamped line partially decremented; undo it too.
			if fulfilled > 0 {
				applied = append(applied, appliedLine{productID: item.ProductID, quantity: fulfilled})
			}
			h.compensate(ctx, applied, cmd.CustomerID)
			return nil, fmt.Errorf("%w: product %d has %d of %d requested units",
				domain.ErrInsufficientStock, item.ProductID, fulfilled, item.Quantity)
		}

		applied = append(applied, appliedLine{productID: item.ProductID, quantity: item.Quantity})
	}

	order := &domain.Order{
		ID:             uuid.NewString(),
		CustomerID:     cmd.CustomerID,
		Status:         domain.StatusConfirmed,
		Subtotal:       result.Subtotal,
		DiscountAmount: result.DiscountAmount,
		ShippingCost:   result.ShippingCost,
		TaxAmount:      result.TaxAmount,
		Total:          result.Total,
		ShippingETA:    quote.ETADescription,
	}
	if discount != nil && discount.IsValid {
		order.DiscountCode = discount.Code
	}
	for _, line := range cart.Lines {
		order.Items = append(order.Items, domain.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	if err := h.orders.Create(ctx, order); err != nil {
		h.compensate(ctx, applied, cmd.CustomerID)
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	logger.Info(ctx).
		Str("order_id", order.ID).
		Str("customer_id", cmd.CustomerID).
		Int("lines", len(order.Items)).
		Str("total", order.Total.Format()).
		Msg("Order placed")

	return order, nil
}

type appliedLine struct {
	productID uint
	quantity  int
}

// compensate issues RETURN adjustments for lines already decremented by
// a failed checkout. The request context may already be cancelled or past
// its deadline (that is often why the checkout failed), so the adjustments
// run detached from it with their own budget; trace and log values carry
// over.
func (h *PlaceOrderHandler) compensate(ctx context.Context, applied []appliedLine, customerID string) {
	if len(applied) == 0 {
		return
	}
	if h.metrics != nil {
		h.metrics.CompensationsRuns.Inc()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	for _, line := range applied {
		_, _, err := h.ledger.ApplyAdjustment(ctx, line.productID, inventory.KindReturn, line.quantity, "checkout compensation", customerID)
		if err != nil {
			// Nothing left to do inline; the ledger still has the SALE
			// record, so reconciliation can recover the units.
			logger.Error(ctx).
				Err(err).
				Uint("product_id", line.productID).
				Int("quantity", line.quantity).
				Msg("Compensation failed, manual reconciliation required")
			continue
		}

		logger.Warn(ctx).
			Uint("product_id", line.productID).
			Int("quantity", line.quantity).
			Msg("Compensated stock decrement after failed checkout")
	}
}
