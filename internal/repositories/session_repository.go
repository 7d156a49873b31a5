package repositories

import (
	"context"
	"time"

	"storefront/internal/models"
)

// SessionRepository stores sign-in sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Extend(ctx context.Context, id string, expiresAt, refreshedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
