package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fernholt/storefront/pkg/logger"
)

// CacheConfig holds cache configuration
type CacheConfig struct {
	DefaultTTL        time.Duration // Default cache TTL
	CacheablePrefixes []string      // Route prefixes eligible for caching
	CacheableStatus   []int         // HTTP status codes to cache
}

// DefaultCacheConfig caches only the public storefront reads. Order and
// admin routes are never cached; checkout is a POST and falls out on the
// method check anyway.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL: 5 * time.Minute,
		CacheablePrefixes: []string{
			"/api/inventory",
			"/api/pricing",
			"/api/discounts",
		},
		CacheableStatus: []int{200, 404},
	}
}

// CacheMiddleware implements response caching with Redis
func CacheMiddleware(redisClient *redis.Client, config CacheConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Skip caching if Redis is not available
		if redisClient == nil {
			return c.Next()
		}

		// Only GET reads on the public storefront prefixes are cached
		if c.Method() != fiber.MethodGet || !isPathCacheable(c.Path(), config.CacheablePrefixes) {
			return c.Next()
		}

		cacheKey := generateCacheKey(c)

		// Try to get from cache
		ctx := c.UserContext()
		cachedResponse, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil && len(cachedResponse) > 0 {
			logger.Logger.Debug().
				Str("path", c.Path()).
				Str("cache_key", cacheKey).
				Msg("Cache hit")

			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(cachedResponse)
		}

		// Cache miss - execute request
		err = c.Next()

		// Check if response should be cached
		statusCode := c.Response().StatusCode()
		if isStatusCacheable(statusCode, config.CacheableStatus) {
			responseBody := c.Response().Body()

			ttl := config.DefaultTTL
			if err := redisClient.Set(ctx, cacheKey, responseBody, ttl).Err(); err != nil {
				logger.Logger.Warn().
					Err(err).
					Str("cache_key", cacheKey).
					Msg("Failed to cache response")
			} else {
				logger.Logger.Debug().
					Str("path", c.Path()).
					Str("cache_key", cacheKey).
					Dur("ttl", ttl).
					Int("size", len(responseBody)).
					Msg("Response cached")
			}

			c.Set("X-Cache", "MISS")
		}

		return err
	}
}

// generateCacheKey generates a unique cache key for the request
func generateCacheKey(c *fiber.Ctx) string {
	keyComponents := fmt.Sprintf("%s:%s:%s",
		c.Method(),
		c.Path(),
		string(c.Request().URI().QueryString()),
	)

	hash := sha256.Sum256([]byte(keyComponents))
	return fmt.Sprintf("cache:%s", hex.EncodeToString(hash[:]))
}

// isPathCacheable checks if the path falls under a cacheable prefix
func isPathCacheable(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// isStatusCacheable checks if status code is cacheable
func isStatusCacheable(status int, cacheableStatus []int) bool {
	for _, s := range cacheableStatus {
		if s == status {
			return true
		}
	}
	return false
}
