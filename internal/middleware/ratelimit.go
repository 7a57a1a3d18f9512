package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Counter increments the hit count of key within a window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisCounter is a fixed-window counter shared by every instance.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, r.rdb, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

// RateLimit allows limit requests per client IP per window. Counter
// failures let the request through.
func RateLimit(counter Counter, limit int, window time.Duration, prefix string, logger *slog.Logger) gin.HandlerFunc {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return func(c *gin.Context) {
		key := prefix + ":" + c.ClientIP()
		count, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn("rate limiter error", "err", err)
			c.Next()
			return
		}
		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error_code": "rate_limited",
				"message":    "Muitas requisições. Tente novamente em instantes.",
			})
			return
		}
		c.Next()
	}
}
