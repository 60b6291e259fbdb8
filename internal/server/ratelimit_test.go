// internal/server/ratelimit_test.go
package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client), mr
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	limiter, _ := newLimiter(t)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("1.2.3.4", 5, time.Minute), "request %d", i+1)
	}
	assert.False(t, limiter.Allow("1.2.3.4", 5, time.Minute))
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := newLimiter(t)

	require.True(t, limiter.Allow("1.2.3.4", 1, time.Minute))
	require.False(t, limiter.Allow("1.2.3.4", 1, time.Minute))
	assert.True(t, limiter.Allow("5.6.7.8", 1, time.Minute))
}

func TestLimiterWindowExpiry(t *testing.T) {
	limiter, mr := newLimiter(t)

	require.True(t, limiter.Allow("1.2.3.4", 1, time.Minute))
	require.False(t, limiter.Allow("1.2.3.4", 1, time.Minute))

	mr.FastForward(61 * time.Second)
	assert.True(t, limiter.Allow("1.2.3.4", 1, time.Minute))
}

func TestLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisLimiter(client)
	mr.Close()

	assert.True(t, limiter.Allow("1.2.3.4", 1, time.Minute))

	var nilLimiter *RedisLimiter
	assert.True(t, nilLimiter.Allow("1.2.3.4", 1, time.Minute))
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	limiter, _ := newLimiter(t)

	handler := rateLimit(limiter, 1, time.Minute)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/status?id=RC-X", nil)
	req.RemoteAddr = "1.2.3.4:5555"

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
