package shipping

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pricing "github.com/fernholt/storefront/internal/pricing/domain"
)

func TestDestinationZone(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{"CA", "domestic"},
		{"", "domestic"},
		{"us", "us"},
		{"DE", "international"},
		{"JP", "international"},
	}

	for _, tt := range tests {
		if got := (Destination{Country: tt.country}).Zone(); got != tt.want {
			t.Errorf("Zone(%q) = %q, want %q", tt.country, got, tt.want)
		}
	}
}

func TestHTTPRateSource_Quote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"price":"7.49","eta_description":"2-4 business days"}`))
	}))
	defer server.Close()

	source := NewHTTPRateSource(server.URL, time.Second)
	quote, err := source.Quote(context.Background(), Destination{Country: "CA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Price != 749 {
		t.Errorf("expected price 749, got %d", quote.Price)
	}
	if quote.ETADescription != "2-4 business days" {
		t.Errorf("unexpected ETA: %q", quote.ETADescription)
	}
}

func TestFallbackRateSource_UsesTableOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fallbacks := 0
	source := NewFallbackRateSource(NewHTTPRateSource(server.URL, time.Second), DefaultRateTable()).
		OnFallback(func() { fallbacks++ })

	quote, err := source.Quote(context.Background(), Destination{Country: "US"})
	if err != nil {
		t.Fatalf("fallback must absorb upstream failures, got %v", err)
	}
	if quote.Price != 999 {
		t.Errorf("expected us zone table rate 999, got %d", quote.Price)
	}
	if fallbacks != 1 {
		t.Errorf("expected fallback hook to fire once, got %d", fallbacks)
	}
}

func TestFallbackRateSource_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	source := NewFallbackRateSource(
		NewHTTPRateSource(server.URL, 20*time.Millisecond),
		DefaultRateTable(),
	)

	start := time.Now()
	quote, err := source.Quote(context.Background(), Destination{Country: "DE"})
	if err != nil {
		t.Fatalf("timeout must fall back, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("quote took %v, timeout not bounded", elapsed)
	}
	if quote.Price != 1999 {
		t.Errorf("expected international table rate, got %d", quote.Price)
	}
}

func TestFallbackRateSource_NilPrimary(t *testing.T) {
	source := NewFallbackRateSource(nil, DefaultRateTable())

	quote, err := source.Quote(context.Background(), Destination{Country: "CA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote != (pricing.ShippingQuote{Price: 599, ETADescription: "3-5 business days"}) {
		t.Errorf("unexpected quote: %+v", quote)
	}
}

func TestFallbackRateSource_PrefersPrimary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price":"4.20","eta_description":"next day"}`))
	}))
	defer server.Close()

	source := NewFallbackRateSource(NewHTTPRateSource(server.URL, time.Second), DefaultRateTable())

	quote, err := source.Quote(context.Background(), Destination{Country: "CA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Price != 420 {
		t.Errorf("expected primary rate 420, got %d", quote.Price)
	}
}
