// internal/server/ratelimit.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"remotehire/internal/common/errors"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window request limiter. It fails open: Redis being
// down must never take the public endpoints with it.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{"ratelimit:" + key},
		window.Milliseconds(), limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

func rateLimit(limiter *RedisLimiter, limit int, window time.Duration) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r), limit, window) {
				writeError(w, errors.NewRateLimitedError("slow down and retry shortly"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
