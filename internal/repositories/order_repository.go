package repositories

import (
	"context"
	"errors"
	"fmt"

	"aesthetx/internal/models"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// StockLine is one quantity to take from a product's size or colour stock.
type StockLine struct {
	ProductID uint
	Key       string
	Quantity  int
}

// InsufficientStockError reports the product that could not cover a line.
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Key       string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): %d available", e.Name, e.Key, e.Available)
}

type OrderFilter struct {
	Status string
	Search string
}

type OrderRepository interface {
	// CreateWithStock locks every product row, takes the stock, records the
	// sale, inserts the order and clears the buyer's cart in one transaction.
	CreateWithStock(ctx context.Context, order *models.Order, lines []StockLine) error
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Order, int64, error)
	List(ctx context.Context, filter OrderFilter, offset, limit int) ([]models.Order, int64, error)
	// UpdateStatus moves an order along its lifecycle. Cancelling puts the
	// items back into stock.
	UpdateStatus(ctx context.Context, orderNumber, status string) (*models.Order, string, error)
	Totals(ctx context.Context) (models.OrderTotals, error)
}
