package middleware

import (
	"net/http"
	"sync"

	"notiq/internal/common"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RequestLimiter is a per-IP token bucket guarding the HTTP surface.
// It is unrelated to the per-user delivery quota, which lives in the
// dispatch pipeline and counts confirmed deliveries.
type RequestLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

// NewRequestLimiter creates a new RequestLimiter.
func NewRequestLimiter(rps float64, burst int) *RequestLimiter {
	return &RequestLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// getLimiter retrieves or creates a rate limiter for the given IP.
func (rl *RequestLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[ip]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = rl.limiters[ip]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[ip] = limiter
	return limiter
}

// Middleware returns a Gin middleware that enforces the request limit.
func (rl *RequestLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getLimiter(c.ClientIP())
		if !limiter.Allow() {
			common.Error(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}
