package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"resume-api/internal/observability"
)

const (
	visitorTTL    = 3 * time.Minute
	sweepInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter is a per-client token bucket keyed by remote IP.
type ipLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
	metrics   *observability.Metrics
}

// newIPLimiter allows perMinute requests per client with the given burst. A
// non-positive perMinute disables limiting.
func newIPLimiter(perMinute, burst int, metrics *observability.Metrics) *ipLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &ipLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		now:      time.Now,
		metrics:  metrics,
	}
}

func (l *ipLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > sweepInterval {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// middleware rejects over-limit clients with 429. A nil limiter passes
// everything through.
func (l *ipLimiter) middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l == nil || l.allow(c.IP()) {
			return c.Next()
		}
		l.metrics.RateLimited()
		c.Set(fiber.HeaderRetryAfter, "60")
		return fail(c, fiber.StatusTooManyRequests, "rate limit exceeded, try again later")
	}
}
