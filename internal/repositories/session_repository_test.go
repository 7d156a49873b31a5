package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/testutil"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func exerciseSessionRepository(t *testing.T, repo repositories.SessionRepository) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	session := &models.Session{
		ID:          uuid.NewString(),
		UserID:      7,
		ExpiresAt:   now.Add(time.Hour),
		RefreshedAt: now,
		IPAddress:   "10.0.0.1",
		UserAgent:   "test",
	}
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)
	assert.True(t, got.ExpiresAt.Equal(session.ExpiresAt))

	later := now.Add(2 * time.Hour)
	require.NoError(t, repo.Extend(ctx, session.ID, later, now.Add(time.Minute)))
	got, err = repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.Equal(later))

	require.NoError(t, repo.Delete(ctx, session.ID))
	_, err = repo.Get(ctx, session.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Extend(ctx, session.ID, later, now), repositories.ErrNotFound)
}

func TestGORMSessionRepository(t *testing.T) {
	exerciseSessionRepository(t, repositories.NewGORMSessionRepository(testutil.SetupTestDB(t)))
}

func TestRedisSessionRepository(t *testing.T) {
	exerciseSessionRepository(t, repositories.NewRedisSessionRepository(redisClient(t)))
}

func TestRedisSessionRepository_RejectsExpired(t *testing.T) {
	repo := repositories.NewRedisSessionRepository(redisClient(t))

	err := repo.Create(context.Background(), &models.Session{ID: uuid.NewString(), ExpiresAt: time.Now().Add(-time.Minute)})
	assert.ErrorContains(t, err, "already expired")
}
