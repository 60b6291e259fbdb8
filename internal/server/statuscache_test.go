// internal/server/statuscache_test.go
package server

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProjection() StatusProjection {
	return StatusProjection{
		AppID:       "RC-A1B2C3D4",
		Status:      "INTERVIEW",
		RoleTitle:   "Backend Engineer",
		Timestamp:   "2026-03-02T10:30:00Z",
		LastUpdated: "2026-03-02T10:30:00Z",
	}
}

func TestStatusCacheHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewStatusCache(client, time.Minute)
	proj := testProjection()
	encoded, err := json.Marshal(proj)
	require.NoError(t, err)

	mock.ExpectGet("status:RC-A1B2C3D4").SetVal(string(encoded))

	got, ok := cache.Get(context.Background(), "RC-A1B2C3D4")
	require.True(t, ok)
	assert.Equal(t, proj, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusCacheMissAndFill(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewStatusCache(client, time.Minute)
	proj := testProjection()
	encoded, err := json.Marshal(proj)
	require.NoError(t, err)

	mock.ExpectGet("status:RC-A1B2C3D4").RedisNil()
	mock.ExpectSet("status:RC-A1B2C3D4", encoded, time.Minute).SetVal("OK")

	_, ok := cache.Get(context.Background(), "RC-A1B2C3D4")
	assert.False(t, ok)
	cache.Set(context.Background(), proj)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusCacheInvalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewStatusCache(client, time.Minute)

	mock.ExpectDel("status:RC-A1B2C3D4").SetVal(1)
	cache.Invalidate(context.Background(), "RC-A1B2C3D4")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusCacheErrorIsAMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewStatusCache(client, time.Minute)

	mock.ExpectGet("status:RC-A1B2C3D4").SetErr(redis.ErrClosed)
	_, ok := cache.Get(context.Background(), "RC-A1B2C3D4")
	assert.False(t, ok)
}

func TestStatusCacheNilClientIsNoOp(t *testing.T) {
	var cache *StatusCache
	_, ok := cache.Get(context.Background(), "RC-A1B2C3D4")
	assert.False(t, ok)
	cache.Set(context.Background(), testProjection())
	cache.Invalidate(context.Background(), "RC-A1B2C3D4")
}
