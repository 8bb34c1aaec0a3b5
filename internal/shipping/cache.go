package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pricing "github.com/fernholt/storefront/internal/pricing/domain"
	"github.com/fernholt/storefront/pkg/logger"
)

// CachedRateSource caches quotes in Redis keyed by coarse zone. Rates
// change rarely; a short TTL keeps checkout off the carrier API for the
// common case.
type CachedRateSource struct {
	inner RateSource
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedRateSource(inner RateSource, redisClient *redis.Client, ttl time.Duration) *CachedRateSource {
	return &CachedRateSource{inner: inner, redis: redisClient, ttl: ttl}
}

func (s *CachedRateSource) Quote(ctx context.Context, dest Destination) (pricing.ShippingQuote, error) {
	key := fmt.Sprintf("shiprate:%s", dest.Zone())

	if cached, err := s.redis.Get(ctx, key).Bytes(); err == nil {
		var quote pricing.ShippingQuote
		if err := json.Unmarshal(cached, &quote); err == nil {
			return quote, nil
		}
	}

	quote, err := s.inner.Quote(ctx, dest)
	if err != nil {
		return pricing.ShippingQuote{}, err
	}

	if payload, err := json.Marshal(quote); err == nil {
		if err := s.redis.Set(ctx, key, payload, s.ttl).Err(); err != nil {
			logger.Warn(ctx).Err(err).Str("key", key).Msg("Failed to cache shipping quote")
		}
	}

	return quote, nil
}
