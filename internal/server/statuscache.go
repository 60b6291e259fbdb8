// internal/server/statuscache.go
package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"remotehire/internal/models"
)

// StatusProjection is the safe field subset the public lookup returns.
type StatusProjection struct {
	AppID       string `json:"appId"`
	Status      string `json:"status"`
	RoleTitle   string `json:"roleTitle"`
	Timestamp   string `json:"timestamp"`
	LastUpdated string `json:"lastUpdated"`
}

// ProjectStatus reduces a record to its public projection.
func ProjectStatus(rec *models.ApplicationRecord) StatusProjection {
	return StatusProjection{
		AppID:       rec.AppID,
		Status:      string(rec.Status),
		RoleTitle:   rec.RoleTitle,
		Timestamp:   models.EncodeTime(rec.CreatedAt),
		LastUpdated: models.EncodeTime(rec.LastUpdated),
	}
}

// StatusCache keeps public status projections in Redis for a short TTL so a
// poll-happy applicant does not hammer the row store. All failures degrade to
// a cache miss.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatusCache{client: client, ttl: ttl}
}

func (c *StatusCache) Get(ctx context.Context, appID string) (*StatusProjection, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, statusCacheKey(appID)).Bytes()
	if err != nil {
		return nil, false
	}
	var proj StatusProjection
	if err := json.Unmarshal(raw, &proj); err != nil {
		return nil, false
	}
	return &proj, true
}

func (c *StatusCache) Set(ctx context.Context, proj StatusProjection) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(proj)
	if err != nil {
		return
	}
	c.client.Set(ctx, statusCacheKey(proj.AppID), raw, c.ttl)
}

// Invalidate drops a cached projection after a mutation.
func (c *StatusCache) Invalidate(ctx context.Context, appID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, statusCacheKey(appID))
}

func statusCacheKey(appID string) string {
	return "status:" + appID
}
