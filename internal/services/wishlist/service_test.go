package wishlist

import (
	"context"
	"testing"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories/mocks"
	"aesthetx/internal/services/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cartStub struct {
	cart.Service
	mock.Mock
}

func (c *cartStub) Add(ctx context.Context, userID uint, input cart.AddInput) (*models.Cart, error) {
	args := c.Called(ctx, userID, input)
	out, _ := args.Get(0).(*models.Cart)
	return out, args.Error(1)
}

type fixture struct {
	items    *mocks.WishlistRepository
	products *mocks.ProductRepository
	cart     *cartStub
	svc      Service
}

func newFixture() *fixture {
	f := &fixture{
		items:    new(mocks.WishlistRepository),
		products: new(mocks.ProductRepository),
		cart:     new(cartStub),
	}
	f.svc = NewService(f.items, f.products, f.cart)
	return f
}

var ring = &models.Product{ID: 4, ItemID: "AX-ring0001", Name: "Ring", GarmentType: models.GarmentPendant}

func TestToggle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.products.On("GetByItemID", ctx, ring.ItemID).Return(ring, nil)

	f.items.On("Exists", ctx, uint(1), uint(4)).Return(false, nil).Once()
	f.items.On("Create", ctx, mock.MatchedBy(func(it *models.WishlistItem) bool {
		return it.ProductID == 4 && it.Name == "Ring"
	})).Return(nil).Once()

	listed, err := f.svc.Toggle(ctx, 1, ring.ItemID)
	require.NoError(t, err)
	assert.True(t, listed)

	f.items.On("Exists", ctx, uint(1), uint(4)).Return(true, nil).Once()
	f.items.On("Delete", ctx, uint(1), uint(4)).Return(nil).Once()

	listed, err = f.svc.Toggle(ctx, 1, ring.ItemID)
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestAddHiddenProduct(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.products.On("GetByItemID", ctx, "AX-hidden").Return(&models.Product{ID: 5, IsHidden: true}, nil)

	assert.ErrorIs(t, f.svc.Add(ctx, 1, "AX-hidden"), apperrors.ErrProductNotFound)
}

func TestMoveToCartRemovesFromWishlist(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.products.On("GetByItemID", ctx, ring.ItemID).Return(ring, nil)
	f.cart.On("Add", ctx, uint(1), cart.AddInput{ProductID: ring.ItemID, Color: "Gold", Quantity: 1}).
		Return(&models.Cart{ItemCount: 1}, nil)
	f.items.On("Delete", ctx, uint(1), uint(4)).Return(nil)

	c, err := f.svc.MoveToCart(ctx, 1, ring.ItemID, "", "Gold")
	require.NoError(t, err)
	assert.Equal(t, 1, c.ItemCount)
	f.items.AssertCalled(t, "Delete", ctx, uint(1), uint(4))
}

func TestMoveToCartKeepsItemWhenOutOfStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.products.On("GetByItemID", ctx, ring.ItemID).Return(ring, nil)
	f.cart.On("Add", ctx, uint(1), mock.Anything).Return(nil, apperrors.ErrInsufficientStock)

	_, err := f.svc.MoveToCart(ctx, 1, ring.ItemID, "", "Gold")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	f.items.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
