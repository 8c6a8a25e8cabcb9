package repositories

import (
	"context"

	"aesthetx/internal/models"
)

type CartRepository interface {
	List(ctx context.Context, userID uint) ([]models.CartItem, error)
	Get(ctx context.Context, userID, itemID uint) (*models.CartItem, error)
	FindLine(ctx context.Context, userID, productID uint, size, color string) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, itemID uint, quantity int) error
	Delete(ctx context.Context, userID, itemID uint) error
	Clear(ctx context.Context, userID uint) error
}

type WishlistRepository interface {
	List(ctx context.Context, userID uint) ([]models.WishlistItem, error)
	Exists(ctx context.Context, userID, productID uint) (bool, error)
	// Create is a no-op when the product is already on the list.
	Create(ctx context.Context, item *models.WishlistItem) error
	Delete(ctx context.Context, userID, productID uint) error
}
