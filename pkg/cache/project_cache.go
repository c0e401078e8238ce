// Package cache holds the optional Redis read cache for projects.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
)

// ProjectCache caches single-project reads. Implementations never return
// errors: a cache failure is logged and treated as a miss.
type ProjectCache interface {
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.Project, bool)
	Set(ctx context.Context, project *models.Project)
	Invalidate(ctx context.Context, ownerID string, id uuid.UUID)
}

// ProjectKey is the Redis key of one owner's project.
func ProjectKey(ownerID string, id uuid.UUID) string {
	return fmt.Sprintf("blueprint:project:%s:%s", ownerID, id)
}

type redisProjectCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProjectCache returns a Redis-backed cache, or a no-op cache when client is nil.
func NewProjectCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ProjectCache {
	if client == nil {
		return NoopProjectCache{}
	}
	return &redisProjectCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("cache"),
	}
}

func (c *redisProjectCache) Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.Project, bool) {
	key := ProjectKey(ownerID, id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Project cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		c.logger.Warn("Discarding corrupt project cache entry", zap.String("key", key), zap.Error(err))
		c.Invalidate(ctx, ownerID, id)
		return nil, false
	}
	if project.OwnerID != ownerID {
		return nil, false
	}

	return &project, true
}

func (c *redisProjectCache) Set(ctx context.Context, project *models.Project) {
	key := ProjectKey(project.OwnerID, project.ID)

	data, err := json.Marshal(project)
	if err != nil {
		c.logger.Warn("Failed to encode project for cache", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Project cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *redisProjectCache) Invalidate(ctx context.Context, ownerID string, id uuid.UUID) {
	key := ProjectKey(ownerID, id)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("Project cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

// NoopProjectCache is used when Redis is not configured.
type NoopProjectCache struct{}

func (NoopProjectCache) Get(context.Context, string, uuid.UUID) (*models.Project, bool) {
	return nil, false
}

func (NoopProjectCache) Set(context.Context, *models.Project) {}

func (NoopProjectCache) Invalidate(context.Context, string, uuid.UUID) {}

var (
	_ ProjectCache = (*redisProjectCache)(nil)
	_ ProjectCache = NoopProjectCache{}
)
