package wishlist

import (
	"context"
	"fmt"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/services/cart"
	"aesthetx/internal/services/product"
)

type Service interface {
	Get(ctx context.Context, userID uint) ([]models.WishlistItem, error)
	Add(ctx context.Context, userID uint, productRef string) error
	Remove(ctx context.Context, userID uint, productRef string) error
	// Toggle adds or removes the product and reports whether it is now listed.
	Toggle(ctx context.Context, userID uint, productRef string) (bool, error)
	Contains(ctx context.Context, userID uint, productRef string) (bool, error)
	MoveToCart(ctx context.Context, userID uint, productRef, size, color string) (*models.Cart, error)
}

type service struct {
	items    repositories.WishlistRepository
	products repositories.ProductRepository
	cart     cart.Service
}

func NewService(items repositories.WishlistRepository, products repositories.ProductRepository, cartService cart.Service) Service {
	return &service{items: items, products: products, cart: cartService}
}

func (s *service) Get(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	items, err := s.items.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	if items == nil {
		items = []models.WishlistItem{}
	}
	return items, nil
}

func (s *service) Add(ctx context.Context, userID uint, productRef string) error {
	p, err := s.visible(ctx, productRef)
	if err != nil {
		return err
	}
	return s.add(ctx, userID, p)
}

func (s *service) Remove(ctx context.Context, userID uint, productRef string) error {
	p, err := product.Resolve(ctx, s.products, productRef)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, userID, p.ID); err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}

func (s *service) Toggle(ctx context.Context, userID uint, productRef string) (bool, error) {
	p, err := product.Resolve(ctx, s.products, productRef)
	if err != nil {
		return false, err
	}
	listed, err := s.items.Exists(ctx, userID, p.ID)
	if err != nil {
		return false, err
	}
	if listed {
		if err := s.items.Delete(ctx, userID, p.ID); err != nil {
			return true, fmt.Errorf("remove wishlist item: %w", err)
		}
		return false, nil
	}
	if p.IsHidden {
		return false, apperrors.ErrProductNotFound
	}
	if err := s.add(ctx, userID, p); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) Contains(ctx context.Context, userID uint, productRef string) (bool, error) {
	p, err := product.Resolve(ctx, s.products, productRef)
	if err != nil {
		return false, err
	}
	return s.items.Exists(ctx, userID, p.ID)
}

func (s *service) MoveToCart(ctx context.Context, userID uint, productRef, size, color string) (*models.Cart, error) {
	p, err := s.visible(ctx, productRef)
	if err != nil {
		return nil, err
	}
	c, err := s.cart.Add(ctx, userID, cart.AddInput{
		ProductID: p.ItemID,
		Size:      size,
		Color:     color,
		Quantity:  1,
	})
	if err != nil {
		return nil, err
	}
	if err := s.items.Delete(ctx, userID, p.ID); err != nil {
		return nil, fmt.Errorf("remove wishlist item: %w", err)
	}
	return c, nil
}

func (s *service) visible(ctx context.Context, ref string) (*models.Product, error) {
	p, err := product.Resolve(ctx, s.products, ref)
	if err != nil {
		return nil, err
	}
	if p.IsHidden {
		return nil, apperrors.ErrProductNotFound
	}
	return p, nil
}

func (s *service) add(ctx context.Context, userID uint, p *models.Product) error {
	err := s.items.Create(ctx, &models.WishlistItem{
		UserID:    userID,
		ProductID: p.ID,
		ItemID:    p.ItemID,
		Name:      p.Name,
		Image:     p.MainImage,
		Price:     p.Price,
	})
	if err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}
