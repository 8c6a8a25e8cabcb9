package repositories

import (
	"context"

	"aesthetx/internal/models"

	"github.com/shopspring/decimal"
)

const (
	OrderNewest     = "created_at DESC, id DESC"
	OrderBestSeller = "buys DESC, created_at DESC, id DESC"
)

type ProductFilter struct {
	Category    string
	Hidden      *bool
	OutOfStock  bool
	Search      string
	VisibleOnly bool
	ExcludeID   uint
}

// SearchCriteria selects the candidate products for a storefront search.
type SearchCriteria struct {
	Query       string
	Category    string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	// GetByItemID reads through the cache.
	GetByItemID(ctx context.Context, itemID string) (*models.Product, error)
	// Delete removes the product together with the cart and wishlist lines pointing at it.
	Delete(ctx context.Context, product *models.Product) error
	List(ctx context.Context, filter ProductFilter, order string, offset, limit int) ([]models.Product, int64, error)
	// FindMatching returns every visible product matching the criteria, unordered.
	FindMatching(ctx context.Context, criteria SearchCriteria) ([]models.Product, error)
	Totals(ctx context.Context) (models.ProductTotals, error)
}
