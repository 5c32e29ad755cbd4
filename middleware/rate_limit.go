package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/nexus/utils"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
	mu      sync.Mutex
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rateLimiter
}

// NewRateLimiter allows perMinute requests per IP with a burst of half that.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:    max(perMinute/2, 1),
		limiters: map[string]*rateLimiter{},
	}
}

// RateLimitMiddleware applies a per-IP token bucket. perMinute <= 0 disables limiting.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	rl := NewRateLimiter(perMinute)
	return func(ctx *gin.Context) {
		if !rl.Allow(ctx.ClientIP()) {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// Allow reports whether key may make another request now.
func (rl *RateLimiter) Allow(key string) bool {
	limiter := rl.get(key)
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	return limiter.limiter.Allow()
}

func (rl *RateLimiter) get(key string) *rateLimiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanupExpiredLocked()

	if limiter, ok := rl.limiters[key]; ok {
		limiter.expires = time.Now().Add(5 * time.Minute)
		return limiter
	}
	limiter := &rateLimiter{
		limiter: rate.NewLimiter(rl.limit, rl.burst),
		expires: time.Now().Add(5 * time.Minute),
	}
	rl.limiters[key] = limiter
	return limiter
}

func (rl *RateLimiter) cleanupExpiredLocked() {
	now := time.Now()
	for key, limiter := range rl.limiters {
		if now.After(limiter.expires) {
			delete(rl.limiters, key)
		}
	}
}
