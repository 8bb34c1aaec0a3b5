package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	pricing "github.com/fernholt/storefront/internal/pricing/domain"
	"github.com/fernholt/storefront/pkg/logger"
	"github.com/fernholt/storefront/pkg/money"
)

// ErrUpstreamUnavailable indicates the external rate source failed or
// timed out. It is absorbed by the fallback source, never surfaced to a
// shopper as a checkout failure.
var ErrUpstreamUnavailable = errors.New("shipping rate source unavailable")

// Destination is the coarse shipping destination used for rate lookup.
type Destination struct {
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// Zone maps a destination to a coarse rate zone.
func (d Destination) Zone() string {
	switch strings.ToUpper(strings.TrimSpace(d.Country)) {
	case "", "CA":
		return "domestic"
	case "US":
		return "us"
	default:
		return "international"
	}
}

// RateSource quotes shipping for a destination.
type RateSource interface {
	Quote(ctx context.Context, dest Destination) (pricing.ShippingQuote, error)
}

// HTTPRateSource queries an external carrier-rate collaborator over HTTP
// with a bounded timeout.
type HTTPRateSource struct {
	url    string
	client *http.Client
}

func NewHTTPRateSource(url string, timeout time.Duration) *HTTPRateSource {
	return &HTTPRateSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPRateSource) Quote(ctx context.Context, dest Destination) (pricing.ShippingQuote, error) {
	payload, err := json.Marshal(dest)
	if err != nil {
		return pricing.ShippingQuote{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return pricing.ShippingQuote{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return pricing.ShippingQuote{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pricing.ShippingQuote{}, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body struct {
		Price          string `json:"price"`
		ETADescription string `json:"eta_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return pricing.ShippingQuote{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	price, err := money.ParseDecimal(body.Price)
	if err != nil {
		return pricing.ShippingQuote{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return pricing.ShippingQuote{Price: price, ETADescription: body.ETADescription}, nil
}

// StaticRateTable is the fallback rate table keyed by coarse zone.
type StaticRateTable map[string]pricing.ShippingQuote

// DefaultRateTable returns the built-in zone rates.
func DefaultRateTable() StaticRateTable {
	return StaticRateTable{
		"domestic":      {Price: 599, ETADescription: "3-5 business days"},
		"us":            {Price: 999, ETADescription: "5-8 business days"},
		"international": {Price: 1999, ETADescription: "10-15 business days"},
	}
}

// Lookup returns the zone rate, falling back to the international rate
// for unknown zones.
func (t StaticRateTable) Lookup(zone string) pricing.ShippingQuote {
	if quote, ok := t[zone]; ok {
		return quote
	}
	return t["international"]
}

// FallbackRateSource wraps a primary rate source with the static zone
// table so that checkout never blocks on the collaborator.
type FallbackRateSource struct {
	primary RateSource
	table   StaticRateTable

	onFallback func()
}

// NewFallbackRateSource composes a primary source with the static table.
// primary may be nil, in which case every quote comes from the table.
func NewFallbackRateSource(primary RateSource, table StaticRateTable) *FallbackRateSource {
	return &FallbackRateSource{primary: primary, table: table}
}

// OnFallback registers a hook invoked whenever the table is used in
// place of the primary source.
func (s *FallbackRateSource) OnFallback(fn func()) *FallbackRateSource {
	s.onFallback = fn
	return s
}

func (s *FallbackRateSource) Quote(ctx context.Context, dest Destination) (pricing.ShippingQuote, error) {
	if s.primary != nil {
		quote, err := s.primary.Quote(ctx, dest)
		if err == nil {
			return quote, nil
		}

		logger.Warn(ctx).
			Err(err).
			Str("zone", dest.Zone()).
			Msg("Shipping rate source unavailable, using static rate table")
	}

	if s.onFallback != nil {
		s.onFallback()
	}
	return s.table.Lookup(dest.Zone()), nil
}
