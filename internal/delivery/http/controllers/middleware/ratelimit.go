package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"SimpleMOOC/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

type RateLimiter struct {
	log   logger.Log
	store counter
}

// NewRateLimiter builds a limiter over store. A nil store disables limiting.
func NewRateLimiter(log logger.Log, store counter) *RateLimiter {
	return &RateLimiter{log: log, store: store}
}

// Limit allows limit requests per client IP and window for keySuffix. When redis
// is unreachable requests pass.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.store == nil || limit <= 0 {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, c.ClientIP())

		count, err := rl.store.Incr(ctx, key).Result()
		if err != nil {
			rl.log.ErrorErr("rate limit counter failed", err, "key", key)
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.store.Expire(ctx, key, window).Err(); err != nil {
				rl.log.ErrorErr("rate limit expire failed", err, "key", key)
			}
		}

		if count > int64(limit) {
			ttl, _ := rl.store.TTL(ctx, key).Result()
			c.Header("Retry-After", fmt.Sprintf("%.0f", ttl.Seconds()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests",
				"retry_after": ttl.Round(time.Second).String(),
			})
			return
		}
		c.Next()
	}
}
