package resolver

import (
	"fmt"
	"strings"
	"time"

	"github.com/fernholt/storefront/internal/pricing/domain"
	"github.com/fernholt/storefront/pkg/money"
)

// StaticCode is a named discount code with fixed terms.
type StaticCode struct {
	Code           string
	Kind           domain.DiscountKind
	Percentage     int64
	MinOrderAmount money.Cents
	ExpiresAt      *time.Time
}

// PatternRule validates dynamically generated per-user codes (birthday,
// win-back, seasonal) by prefix, without a database round trip.
type PatternRule struct {
	Prefix      string
	Kind        domain.DiscountKind
	Percentage  int64
	Description string
}

// Registry holds the discount definitions a resolver validates against.
// It is injected at construction so tests can swap in alternate tables.
type Registry struct {
	Static   map[string]StaticCode
	Patterns []PatternRule
}

// DefaultRegistry returns the storefront's built-in discount table.
func DefaultRegistry() Registry {
	return Registry{
		Static: map[string]StaticCode{
			"WELCOME10": {Code: "WELCOME10", Kind: domain.DiscountPercentage, Percentage: 10},
			"SAVE15":    {Code: "SAVE15", Kind: domain.DiscountPercentage, Percentage: 15, MinOrderAmount: 5000},
			"CRYSTAL20": {Code: "CRYSTAL20", Kind: domain.DiscountPercentage, Percentage: 20, MinOrderAmount: 10000},
			"FREESHIP":  {Code: "FREESHIP", Kind: domain.DiscountFreeShipping},
		},
		Patterns: []PatternRule{
			{Prefix: "BDAY-", Kind: domain.DiscountPercentage, Percentage: 15, Description: "birthday"},
			{Prefix: "WINBACK-", Kind: domain.DiscountPercentage, Percentage: 10, Description: "win-back"},
			{Prefix: "HOLIDAY-", Kind: domain.DiscountPercentage, Percentage: 12, Description: "seasonal"},
		},
	}
}

// Resolver validates discount codes against an injected registry. The
// chain is ordered: exact static match, then prefix patterns, then
// default-invalid. Expiry is checked after identity resolution.
type Resolver struct {
	registry Registry
	now      func() time.Time
}

// NewResolver creates a resolver over the given registry.
func NewResolver(registry Registry) *Resolver {
	return &Resolver{registry: registry, now: time.Now}
}

// WithClock overrides the resolver's clock, for tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve validates a submitted code and returns its typed descriptor.
func (r *Resolver) Resolve(code string) domain.DiscountDescriptor {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return invalid(normalized, "Please enter a discount code")
	}

	if static, ok := r.registry.Static[normalized]; ok {
		return r.describe(normalized, static.Kind, static.Percentage, static.MinOrderAmount, static.ExpiresAt)
	}

	for _, rule := range r.registry.Patterns {
		if strings.HasPrefix(normalized, rule.Prefix) && len(normalized) > len(rule.Prefix) {
			return r.describe(normalized, rule.Kind, rule.Percentage, 0, nil)
		}
	}

	return invalid(normalized, "Invalid discount code")
}

func (r *Resolver) describe(code string, kind domain.DiscountKind, percentage int64, minOrder money.Cents, expiresAt *time.Time) domain.DiscountDescriptor {
	// Expiry overrides an otherwise successful match.
	if expiresAt != nil && expiresAt.Before(r.now()) {
		return domain.DiscountDescriptor{
			Code:      code,
			Kind:      kind,
			IsValid:   false,
			ExpiresAt: expiresAt,
			Message:   "This discount code has expired",
		}
	}

	descriptor := domain.DiscountDescriptor{
		Code:           code,
		Kind:           kind,
		Percentage:     percentage,
		IsValid:        true,
		MinOrderAmount: minOrder,
		ExpiresAt:      expiresAt,
	}

	switch kind {
	case domain.DiscountFreeShipping:
		descriptor.Message = "Free shipping applied"
	default:
		descriptor.Message = fmt.Sprintf("%d%% off your order", percentage)
	}
	return descriptor
}

func invalid(code, message string) domain.DiscountDescriptor {
	return domain.DiscountDescriptor{Code: code, IsValid: false, Message: message}
}
