package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig sets the steady request rate and the burst a client may
// spend above it.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig is the fallback applied when no rate is configured.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
	}
}

// bucket is a token bucket refilled continuously at the configured rate.
type bucket struct {
	mu       sync.Mutex
	level    float64
	capacity float64
	rate     float64
	filled   time.Time
}

// take refills the bucket for the time elapsed since the last call, then
// spends one token. On an empty bucket it returns the whole seconds until
// the next token becomes available.
func (b *bucket) take(now time.Time) (ok bool, retryAfter int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.level = math.Min(b.capacity, b.level+now.Sub(b.filled).Seconds()*b.rate)
	b.filled = now

	if b.level >= 1 {
		b.level--
		return true, 0
	}
	if b.rate <= 0 {
		return false, 1
	}
	return false, int((1-b.level)/b.rate) + 1
}

// limiter keeps one bucket per client key, created on first sight. Buckets
// are never evicted; the key space is bounded by tenants times client IPs.
type limiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	cfg     RateLimitConfig
}

func (l *limiter) bucketFor(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.clients[key]
	if !ok {
		b = &bucket{
			level:    float64(l.cfg.BurstSize),
			capacity: float64(l.cfg.BurstSize),
			rate:     l.cfg.RequestsPerSecond,
			filled:   time.Now(),
		}
		l.clients[key] = b
	}
	return b
}

// RateLimit throttles per client IP, prefixing the tenant id onto the key
// when the request carries one so tenants never share a budget.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	l := &limiter{clients: make(map[string]*bucket), cfg: cfg}
	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if tenant, ok := c.Get("tenant_id").(string); ok && tenant != "" {
				key = tenant + ":" + key
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limitHeader)

			ok, retryAfter := l.bucketFor(key).take(time.Now())
			if !ok {
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				h.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
