package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "spendchat/internal/errors"
)

// ClientRateLimiter hands out one token bucket per client IP.
type ClientRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientRateLimiter allows perMinute requests per client with the given burst.
func NewClientRateLimiter(perMinute, burst int) *ClientRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &ClientRateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether key may make a request now.
func (l *ClientRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, cl := range l.limiters {
		if now.Sub(cl.lastSeen) > l.idleTTL {
			delete(l.limiters, k)
		}
	}

	cl, ok := l.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// RateLimit rejects clients that exceed the limiter with 429.
func RateLimit(l *ClientRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			abortWithAppError(c, apperrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
