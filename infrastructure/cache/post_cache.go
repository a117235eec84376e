package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reddit-sync/domain/model"
	"reddit-sync/infrastructure/logger"
)

// postListTTL keeps list reads cheap without letting a dashboard go stale for
// long. Every write path invalidates the owner's entry anyway.
const postListTTL = 30 * time.Second

// PostCache caches per-owner post listings in Redis. All methods are safe on a
// nil client: reads miss, writes are dropped.
type PostCache struct {
	client *redis.Client
}

func NewPostCache(client *redis.Client) *PostCache {
	return &PostCache{client: client}
}

func listKey(userID, status string) string {
	if status == "" {
		return fmt.Sprintf("posts:%s:all", userID)
	}
	return fmt.Sprintf("posts:%s:%s", userID, status)
}

// GetList returns the cached listing, or (nil, false) on a miss.
func (c *PostCache) GetList(ctx context.Context, userID, status string) ([]*model.Post, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, listKey(userID, status)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.GetLogger().WithField("error", err).Warn("post cache read failed")
		}
		return nil, false
	}
	var posts []*model.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false
	}
	return posts, true
}

func (c *PostCache) SetList(ctx context.Context, userID, status string, posts []*model.Post) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, listKey(userID, status), raw, postListTTL).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("post cache write failed")
	}
}

// Invalidate drops every cached listing for the owner. Called after any write
// that changes what a listing would return.
func (c *PostCache) Invalidate(ctx context.Context, userID string) {
	if c.client == nil {
		return
	}
	keys := []string{listKey(userID, "")}
	for _, status := range []string{model.StatusPending, model.StatusScheduled, model.StatusPosted, model.StatusFailed} {
		keys = append(keys, listKey(userID, status))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("post cache invalidation failed")
	}
}
