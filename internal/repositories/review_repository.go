package repositories

import (
	"context"

	"aesthetx/internal/models"
)

type ReviewRepository interface {
	// Create returns ErrDuplicate when the user already reviewed the product.
	Create(ctx context.Context, review *models.Review) error
	Exists(ctx context.Context, productID, userID uint) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uint) ([]models.Review, error)
	Delete(ctx context.Context, id uint) error
}
