package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware caps each client IP at limit requests per route and window.
// A nil client or a non-positive limit turns it off. Redis failures let the request through.
func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rateLimitKey(c.FullPath(), c.ClientIP())

		pipe := redisClient.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl := pipe.TTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			c.Next()
			return
		}

		count := incr.Val()
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining(limit, count), 10))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(ttl.Val().Seconds()))))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many posts, try again later"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitKey(route, ip string) string {
	return fmt.Sprintf("blog:rate:%s:%s", route, ip)
}

func remaining(limit int, count int64) int64 {
	if left := int64(limit) - count; left > 0 {
		return left
	}
	return 0
}
