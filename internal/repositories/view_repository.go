package repositories

import (
	"context"
	"time"

	"aesthetx/internal/models"
)

// ViewedProduct is one entry of a user's browsing history.
type ViewedProduct struct {
	ProductID    string    `json:"productId"`
	LastViewedAt time.Time `json:"lastViewedAt"`
}

type ViewRepository interface {
	Create(ctx context.Context, view *models.View) error
	// ListActive returns non-deleted views, oldest first, optionally for one category.
	ListActive(ctx context.Context, category string) ([]models.View, error)
	StatsFor(ctx context.Context, productRefs []string) (models.ProductViewStats, error)
	History(ctx context.Context, userID uint, limit int) ([]ViewedProduct, error)
	SoftDeleteByUser(ctx context.Context, userID uint) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}
