package engine

import (
	"testing"

	"github.com/fernholt/storefront/internal/pricing/domain"
	"github.com/fernholt/storefront/pkg/money"
)

var testConfig = Config{
	FreeShippingThreshold: 7500, // $75.00
	TaxRateBasisPoints:    875,  // 8.75%
}

// Cart [(A, $29.99, 2), (B, $24.99, 1)] with subtotal $84.97.
func sampleCart() domain.CartSnapshot {
	return domain.CartSnapshot{Lines: []domain.CartLine{
		{ProductID: 1, UnitPrice: 2999, Quantity: 2},
		{ProductID: 2, UnitPrice: 2499, Quantity: 1},
	}}
}

func TestComputeTotal_NoDiscount(t *testing.T) {
	e := New(testConfig)
	result := e.ComputeTotal(sampleCart(), nil, domain.ShippingQuote{Price: 599})

	if result.Subtotal != 8497 {
		t.Errorf("expected subtotal 8497, got %d", result.Subtotal)
	}
	if result.DiscountAmount != 0 {
		t.Errorf("expected no discount, got %d", result.DiscountAmount)
	}
	// Subtotal exceeds the free-shipping threshold.
	if result.ShippingCost != 0 {
		t.Errorf("expected free shipping above threshold, got %d", result.ShippingCost)
	}
	// Tax on 84.97 at 8.75% = 7.43 (rounded half-up from 7.4349).
	if result.TaxAmount != 743 {
		t.Errorf("expected tax 743, got %d", result.TaxAmount)
	}
	if result.Total != 8497+743 {
		t.Errorf("expected total %d, got %d", 8497+743, result.Total)
	}
}

func TestComputeTotal_PercentageDiscount(t *testing.T) {
	e := New(testConfig)
	discount := &domain.DiscountDescriptor{
		Code: "SAVE15", Kind: domain.DiscountPercentage, Percentage: 15, IsValid: true,
	}
	result := e.ComputeTotal(sampleCart(), discount, domain.ShippingQuote{Price: 599})

	// 15% of 84.97 = 12.7455, rounded to 12.75.
	if result.DiscountAmount != 1275 {
		t.Errorf("expected discount 1275, got %d", result.DiscountAmount)
	}
	if result.ShippingCost != 0 {
		t.Errorf("expected free shipping above threshold, got %d", result.ShippingCost)
	}
	// Tax base includes shipping: (84.97 - 12.75 + 0.00) = 72.22.
	if result.TaxAmount != 632 {
		t.Errorf("expected tax 632, got %d", result.TaxAmount)
	}
	if result.Total != 7222+632 {
		t.Errorf("expected total %d, got %d", 7222+632, result.Total)
	}
}

func TestComputeTotal_ShippingChargedBelowThreshold(t *testing.T) {
	e := New(testConfig)
	cart := domain.CartSnapshot{Lines: []domain.CartLine{
		{ProductID: 1, UnitPrice: 2999, Quantity: 1},
	}}
	result := e.ComputeTotal(cart, nil, domain.ShippingQuote{Price: 599})

	if result.ShippingCost != 599 {
		t.Errorf("expected quoted shipping 599, got %d", result.ShippingCost)
	}
	// Tax on (29.99 + 5.99) = 35.98 at 8.75% = 3.148... -> 3.15.
	if result.TaxAmount != 315 {
		t.Errorf("expected tax 315, got %d", result.TaxAmount)
	}
	if result.Total != 2999+599+315 {
		t.Errorf("expected total %d, got %d", 2999+599+315, result.Total)
	}
}

func TestComputeTotal_FreeShippingDiscount(t *testing.T) {
	e := New(testConfig)
	cart := domain.CartSnapshot{Lines: []domain.CartLine{
		{ProductID: 1, UnitPrice: 2999, Quantity: 1},
	}}
	discount := &domain.DiscountDescriptor{
		Code: "FREESHIP", Kind: domain.DiscountFreeShipping, IsValid: true,
	}
	result := e.ComputeTotal(cart, discount, domain.ShippingQuote{Price: 599})

	// FREE_SHIPPING forces shipping to zero regardless of subtotal and is
	// not a monetary discount.
	if result.ShippingCost != 0 {
		t.Errorf("expected forced free shipping, got %d", result.ShippingCost)
	}
	if result.DiscountAmount != 0 {
		t.Errorf("expected zero discount amount, got %d", result.DiscountAmount)
	}
}

func TestComputeTotal_MinOrderNotMet(t *testing.T) {
	e := New(testConfig)
	cart := domain.CartSnapshot{Lines: []domain.CartLine{
		{ProductID: 1, UnitPrice: 2999, Quantity: 1},
	}}
	discount := &domain.DiscountDescriptor{
		Code: "CRYSTAL20", Kind: domain.DiscountPercentage, Percentage: 20,
		IsValid: true, MinOrderAmount: money.Cents(10000),
	}
	result := e.ComputeTotal(cart, discount, domain.ShippingQuote{Price: 599})

	if result.DiscountAmount != 0 {
		t.Errorf("expected no discount below minimum order, got %d", result.DiscountAmount)
	}
}

func TestComputeTotal_InvalidDiscountIgnored(t *testing.T) {
	e := New(testConfig)
	discount := &domain.DiscountDescriptor{Code: "NOPE", IsValid: false}
	result := e.ComputeTotal(sampleCart(), discount, domain.ShippingQuote{Price: 599})

	if result.DiscountAmount != 0 {
		t.Errorf("expected invalid discount to contribute nothing, got %d", result.DiscountAmount)
	}
}

func TestComputeTotal_Deterministic(t *testing.T) {
	e := New(testConfig)
	discount := &domain.DiscountDescriptor{
		Code: "SAVE15", Kind: domain.DiscountPercentage, Percentage: 15, IsValid: true,
	}

	first := e.ComputeTotal(sampleCart(), discount, domain.ShippingQuote{Price: 599})
	for i := 0; i < 10; i++ {
		if got := e.ComputeTotal(sampleCart(), discount, domain.ShippingQuote{Price: 599}); got != first {
			t.Fatalf("pricing not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestComputeTotal_EmptyCart(t *testing.T) {
	e := New(testConfig)
	result := e.ComputeTotal(domain.CartSnapshot{}, nil, domain.ShippingQuote{Price: 599})

	// An empty cart is below the threshold, so the quote applies; tax is
	// charged on shipping alone.
	if result.Subtotal != 0 {
		t.Errorf("expected zero subtotal, got %d", result.Subtotal)
	}
	if result.ShippingCost != 599 {
		t.Errorf("expected quoted shipping, got %d", result.ShippingCost)
	}
}
