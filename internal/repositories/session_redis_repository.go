package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/models"
)

const sessionKeyPrefix = "auth:session:"

// RedisSessionRepository keeps sessions in Redis with a TTL matching their
// expiry, so expired sessions disappear on their own.
type RedisSessionRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisSessionRepository creates a new instance of RedisSessionRepository.
func NewRedisSessionRepository(client redis.UniversalClient) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
		prefix: sessionKeyPrefix,
	}
}

// Create stores the session with a TTL matching its expiry.
func (r *RedisSessionRepository) Create(ctx context.Context, session *models.Session) error {
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	return r.save(ctx, session)
}

// Get loads a session; a missing key is ErrNotFound.
func (r *RedisSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Extend moves the expiry and resets the TTL.
func (r *RedisSessionRepository) Extend(ctx context.Context, id string, expiresAt, refreshedAt time.Time) error {
	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	session.ExpiresAt = expiresAt
	session.RefreshedAt = refreshedAt
	session.UpdatedAt = refreshedAt
	return r.save(ctx, session)
}

// Delete removes the session key.
func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) save(ctx context.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) key(id string) string {
	return r.prefix + id
}
