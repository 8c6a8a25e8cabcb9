package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/services/product"

	"github.com/shopspring/decimal"
)

type AddInput struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type Service interface {
	Get(ctx context.Context, userID uint) (*models.Cart, error)
	Add(ctx context.Context, userID uint, input AddInput) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) (*models.Cart, error)
	Remove(ctx context.Context, userID, itemID uint) (*models.Cart, error)
	Clear(ctx context.Context, userID uint) error
}

type service struct {
	items    repositories.CartRepository
	products repositories.ProductRepository
}

func NewService(items repositories.CartRepository, products repositories.ProductRepository) Service {
	return &service{items: items, products: products}
}

// CheckStock verifies that a visible product can supply quantity units of
// the selected size or colour.
func CheckStock(p *models.Product, size, color string, quantity int) error {
	if p.IsHidden {
		return apperrors.ErrProductNotFound
	}
	if quantity < 1 {
		return apperrors.ErrInvalidQuantity
	}
	available, units := p.StockFor(size, color)
	if !available {
		return apperrors.ErrOptionUnavailable
	}
	if units <= 0 {
		return apperrors.ErrInsufficientStock.WithMessage("This item is out of stock")
	}
	if quantity > units {
		return apperrors.ErrInsufficientStock.WithMessage(fmt.Sprintf("Only %d left in stock", units))
	}
	return nil
}

// StockKey returns the size or colour a line draws its stock from.
func StockKey(p *models.Product, size, color string) string {
	if p.UsesColorStock() {
		return color
	}
	return size
}

// Summarize totals the quantities and line prices of a cart.
func Summarize(items []models.CartItem) *models.Cart {
	c := &models.Cart{Items: items, Subtotal: decimal.Zero}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	for _, it := range items {
		c.ItemCount += it.Quantity
		c.Subtotal = c.Subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return c
}

func (s *service) Get(ctx context.Context, userID uint) (*models.Cart, error) {
	items, err := s.items.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return Summarize(items), nil
}

func (s *service) Add(ctx context.Context, userID uint, input AddInput) (*models.Cart, error) {
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}

	p, err := product.Resolve(ctx, s.products, input.ProductID)
	if err != nil {
		return nil, err
	}
	size, color := normalizeOption(p, input.Size, input.Color)

	line, err := s.items.FindLine(ctx, userID, p.ID, size, color)
	switch {
	case err == nil:
		merged := line.Quantity + input.Quantity
		if err := CheckStock(p, size, color, merged); err != nil {
			return nil, err
		}
		if err := s.items.UpdateQuantity(ctx, line.ID, merged); err != nil {
			return nil, fmt.Errorf("update cart line: %w", err)
		}
	case errors.Is(err, repositories.ErrNotFound):
		if err := CheckStock(p, size, color, input.Quantity); err != nil {
			return nil, err
		}
		item := &models.CartItem{
			UserID:    userID,
			ProductID: p.ID,
			ItemID:    p.ItemID,
			Size:      size,
			Color:     color,
			Quantity:  input.Quantity,
			Price:     p.Price,
			Name:      p.Name,
			Image:     p.MainImage,
		}
		if err := s.items.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("add cart line: %w", err)
		}
	default:
		return nil, fmt.Errorf("find cart line: %w", err)
	}

	return s.Get(ctx, userID)
}

func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) (*models.Cart, error) {
	line, err := s.items.Get(ctx, userID, itemID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrCartItemNotFound
	} else if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return s.Remove(ctx, userID, itemID)
	}

	p, err := s.products.GetByID(ctx, line.ProductID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrProductNotFound
	} else if err != nil {
		return nil, err
	}
	if err := CheckStock(p, line.Size, line.Color, quantity); err != nil {
		return nil, err
	}
	if err := s.items.UpdateQuantity(ctx, line.ID, quantity); err != nil {
		return nil, fmt.Errorf("update cart line: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, itemID uint) (*models.Cart, error) {
	err := s.items.Delete(ctx, userID, itemID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrCartItemNotFound
	} else if err != nil {
		return nil, fmt.Errorf("remove cart line: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	if err := s.items.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// normalizeOption keeps only the option the product tracks stock by.
func normalizeOption(p *models.Product, size, color string) (string, string) {
	size, color = strings.TrimSpace(size), strings.TrimSpace(color)
	if p.UsesColorStock() {
		return "", color
	}
	return size, p.Color
}
