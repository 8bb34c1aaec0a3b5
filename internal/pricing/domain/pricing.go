package domain

import (
	"time"

	"github.com/fernholt/storefront/pkg/money"
)

// DiscountKind classifies a resolved discount code.
type DiscountKind string

const (
	DiscountPercentage   DiscountKind = "PERCENTAGE"
	DiscountFreeShipping DiscountKind = "FREE_SHIPPING"
)

// DiscountDescriptor is the typed outcome of validating a discount code.
// Exactly one descriptor is active per cart; applying a new code replaces
// the previous one, never stacks.
type DiscountDescriptor struct {
	Code           string       `json:"code"`
	Kind           DiscountKind `json:"kind,omitempty"`
	Percentage     int64        `json:"percentage,omitempty"`
	IsValid        bool         `json:"is_valid"`
	MinOrderAmount money.Cents  `json:"min_order_amount,omitempty"`
	ExpiresAt      *time.Time   `json:"expires_at,omitempty"`
	Message        string       `json:"message"`
}

// CartLine is one priced cart entry. Unit prices come from the catalog,
// never from the client.
type CartLine struct {
	ProductID uint        `json:"product_id"`
	UnitPrice money.Cents `json:"unit_price"`
	Quantity  int         `json:"quantity"`
}

// CartSnapshot is the transient pricing input: an ordered sequence of
// cart lines.
type CartSnapshot struct {
	Lines []CartLine `json:"lines"`
}

// Subtotal sums unit price times quantity over all lines.
func (c CartSnapshot) Subtotal() money.Cents {
	var subtotal money.Cents
	for _, line := range c.Lines {
		subtotal += line.UnitPrice * money.Cents(line.Quantity)
	}
	return subtotal
}

// ShippingQuote is a rate returned by the shipping collaborator.
type ShippingQuote struct {
	Price          money.Cents `json:"price"`
	ETADescription string      `json:"eta_description"`
}

// PricingResult is the computed checkout total. Every field is in integer
// minor units; formatting to two decimal places happens only at the edges.
type PricingResult struct {
	Subtotal       money.Cents `json:"subtotal"`
	DiscountAmount money.Cents `json:"discount_amount"`
	ShippingCost   money.Cents `json:"shipping_cost"`
	TaxAmount      money.Cents `json:"tax_amount"`
	Total          money.Cents `json:"total"`
}
