package repositories

import (
	"context"
	"time"

	"aesthetx/internal/models"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes the user's sessions except the one given.
	DeleteByUser(ctx context.Context, userID uint, exceptID string) ([]string, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// DeleteForInactiveUsers removes sessions of deactivated or deleted users.
	DeleteForInactiveUsers(ctx context.Context) (int64, error)
}
