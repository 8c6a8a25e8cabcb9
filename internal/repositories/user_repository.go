package repositories

import (
	"context"

	"aesthetx/internal/models"
)

type UserFilter struct {
	Role           string
	Search         string
	IncludeDeleted bool
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID, including soft-deleted users
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetActiveByEmail retrieves the non-deleted user with an email address
	GetActiveByEmail(ctx context.Context, email string) (*models.User, error)

	// Update saves every column of an existing user
	Update(ctx context.Context, user *models.User) error

	// UpdateFields applies a partial update
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error

	// List retrieves users with pagination
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]models.User, int64, error)

	// Totals returns the counts shown on the admin dashboard
	Totals(ctx context.Context) (models.UserTotals, error)
}
