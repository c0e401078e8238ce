//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/models"
	"github.com/ekaya-inc/ekaya-blueprint/pkg/testhelpers"
)

func TestRedisProjectCache_RoundTrip(t *testing.T) {
	client := testhelpers.GetTestRedis(t)
	c := NewProjectCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()

	project := &models.Project{
		ID:      uuid.New(),
		OwnerID: "user-1",
		Name:    "Taskly",
		Blueprint: &models.Blueprint{
			Title:   "Taskly Blueprint",
			Content: models.BlueprintContent{Platform: models.Platform{Name: "Taskly"}},
		},
	}

	_, ok := c.Get(ctx, "user-1", project.ID)
	assert.False(t, ok)

	c.Set(ctx, project)

	got, ok := c.Get(ctx, "user-1", project.ID)
	require.True(t, ok)
	assert.Equal(t, "Taskly Blueprint", got.Blueprint.Title)

	ttl := client.TTL(ctx, ProjectKey("user-1", project.ID)).Val()
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	_, ok = c.Get(ctx, "user-2", project.ID)
	assert.False(t, ok, "another owner's key never matches")

	c.Invalidate(ctx, "user-1", project.ID)
	_, ok = c.Get(ctx, "user-1", project.ID)
	assert.False(t, ok)
}

func TestRedisProjectCache_CorruptEntryIsDropped(t *testing.T) {
	client := testhelpers.GetTestRedis(t)
	c := NewProjectCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, client.Set(ctx, ProjectKey("user-1", id), "not json", time.Minute).Err())

	_, ok := c.Get(ctx, "user-1", id)
	assert.False(t, ok)
	assert.Zero(t, client.Exists(ctx, ProjectKey("user-1", id)).Val())
}
