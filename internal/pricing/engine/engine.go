package engine

import (
	"github.com/fernholt/storefront/internal/pricing/domain"
	"github.com/fernholt/storefront/pkg/money"
)

// Config holds the constants the engine consumes. They are injected, not
// hard-coded: the free-shipping threshold and tax rate are deployment
// configuration.
type Config struct {
	// FreeShippingThreshold is the subtotal at which shipping is free.
	FreeShippingThreshold money.Cents
	// TaxRateBasisPoints is the regional tax rate in basis points.
	TaxRateBasisPoints int64
}

// Engine computes checkout totals under one canonical order of
// operations:
//
//  1. subtotal = sum of unit price times quantity
//  2. discount amount (percentage codes only; zero when invalid or the
//     subtotal is below the code's minimum)
//  3. shipping cost (zero above the free-shipping threshold or with a
//     FREE_SHIPPING code, otherwise the quoted rate)
//  4. tax on (subtotal - discount + shipping)
//  5. total = taxable amount + tax
//
// The tax base deliberately includes shipping. All arithmetic is integer
// minor units; percentage and tax applications round half-up to the cent.
type Engine struct {
	cfg Config
}

// New creates a pricing engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// ComputeTotal prices a cart snapshot with an optional resolved discount
// and a shipping quote. It is deterministic: the same inputs always yield
// the same result.
func (e *Engine) ComputeTotal(cart domain.CartSnapshot, discount *domain.DiscountDescriptor, quote domain.ShippingQuote) domain.PricingResult {
	subtotal := cart.Subtotal()

	var discountAmount money.Cents
	freeShipping := false
	if discount != nil && discount.IsValid && subtotal >= discount.MinOrderAmount {
		switch discount.Kind {
		case domain.DiscountPercentage:
			discountAmount = money.ApplyPercent(subtotal, discount.Percentage)
		case domain.DiscountFreeShipping:
			// Not a monetary discount: it forces shipping to zero.
			freeShipping = true
		}
	}

	shippingCost := quote.Price
	if freeShipping || subtotal >= e.cfg.FreeShippingThreshold {
		shippingCost = 0
	}

	taxableAmount := subtotal - discountAmount + shippingCost
	taxAmount := money.ApplyBasisPoints(taxableAmount, e.cfg.TaxRateBasisPoints)

	return domain.PricingResult{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		ShippingCost:   shippingCost,
		TaxAmount:      taxAmount,
		Total:          taxableAmount + taxAmount,
	}
}
