package view

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/repositories/cache"
	"aesthetx/internal/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	views    *mocks.ViewRepository
	products *mocks.ProductRepository
	svc      Service
}

func newFixture(c repositories.Cache) *fixture {
	f := &fixture{
		views:    new(mocks.ViewRepository),
		products: new(mocks.ProductRepository),
	}
	f.svc = NewService(f.views, f.products, c)
	return f
}

var tee = &models.Product{ID: 5, ItemID: "AX-0000tee5", Category: "T-Shirts"}

func TestRecordDeduplicatesPerSession(t *testing.T) {
	f := newFixture(cache.NewMemoryCache(time.Minute))
	ctx := context.Background()

	f.products.On("GetByItemID", ctx, tee.ItemID).Return(tee, nil)
	f.views.On("Create", ctx, mock.MatchedBy(func(v *models.View) bool {
		return v.ProductID == tee.ItemID && v.Category == "T-Shirts" && v.ViewType == models.ViewTypePage
	})).Return(nil).Once()

	in := RecordInput{ProductRef: tee.ItemID, SessionID: "s-1"}
	recorded, err := f.svc.Record(ctx, in)
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = f.svc.Record(ctx, in)
	require.NoError(t, err)
	assert.False(t, recorded)
	f.views.AssertNumberOfCalls(t, "Create", 1)
}

func TestRecordStoresItemIDForNumericReference(t *testing.T) {
	f := newFixture(cache.NewMemoryCache(time.Minute))
	ctx := context.Background()

	f.products.On("GetByItemID", ctx, "5").Return(nil, repositories.ErrNotFound)
	f.products.On("GetByID", ctx, uint(5)).Return(tee, nil)
	f.products.On("GetByItemID", ctx, tee.ItemID).Return(tee, nil)
	f.views.On("Create", ctx, mock.MatchedBy(func(v *models.View) bool {
		return v.ProductID == tee.ItemID
	})).Return(nil).Once()

	recorded, err := f.svc.Record(ctx, RecordInput{ProductRef: "5", SessionID: "s-1"})
	require.NoError(t, err)
	assert.True(t, recorded)

	// the same product by its other reference is still a repeat
	recorded, err = f.svc.Record(ctx, RecordInput{ProductRef: tee.ItemID, SessionID: "s-1"})
	require.NoError(t, err)
	assert.False(t, recorded)
	f.views.AssertNumberOfCalls(t, "Create", 1)
}

type brokenCache struct{ repositories.Cache }

func (brokenCache) SetNX(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func TestRecordWithoutCacheStillRecords(t *testing.T) {
	f := newFixture(brokenCache{})
	ctx := context.Background()

	f.products.On("GetByItemID", ctx, tee.ItemID).Return(tee, nil)
	f.views.On("Create", ctx, mock.AnythingOfType("*models.View")).Return(nil)

	recorded, err := f.svc.Record(ctx, RecordInput{ProductRef: tee.ItemID, SessionID: "s-1", ViewType: models.ViewTypeQuickView, Category: "Sale"})
	require.NoError(t, err)
	assert.True(t, recorded)
}

func TestRecordRejectsUnknownProduct(t *testing.T) {
	f := newFixture(cache.NewMemoryCache(time.Minute))
	ctx := context.Background()
	f.products.On("GetByItemID", ctx, "AX-gone").Return(nil, repositories.ErrNotFound)

	_, err := f.svc.Record(ctx, RecordInput{ProductRef: "AX-gone", SessionID: "s-1"})
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func TestRecordRejectsBadViewType(t *testing.T) {
	f := newFixture(cache.NewMemoryCache(time.Minute))

	_, err := f.svc.Record(context.Background(), RecordInput{ProductRef: tee.ItemID, SessionID: "s-1", ViewType: "hover"})
	_, ok := apperrors.AsValidation(err)
	assert.True(t, ok)
}

func TestProductStatsCoversBothReferences(t *testing.T) {
	f := newFixture(cache.NewMemoryCache(time.Minute))
	ctx := context.Background()
	f.products.On("GetByItemID", ctx, tee.ItemID).Return(tee, nil)
	f.views.On("StatsFor", ctx, []string{tee.ItemID, "5"}).Return(models.ProductViewStats{TotalViews: 3, UniqueUsers: 1, UniqueSessions: 2}, nil)

	stats, err := f.svc.ProductStats(ctx, tee.ItemID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalViews)
}

func TestHistorySkipsMissingAndHidden(t *testing.T) {
	f := newFixture(cache.NewMemoryCache(time.Minute))
	ctx := context.Background()
	now := time.Now()

	f.views.On("History", ctx, uint(1), DefaultHistoryLimit).Return([]repositories.ViewedProduct{
		{ProductID: tee.ItemID, LastViewedAt: now},
		{ProductID: "AX-gone", LastViewedAt: now.Add(-time.Hour)},
		{ProductID: "AX-hidden1", LastViewedAt: now.Add(-2 * time.Hour)},
		{ProductID: "5", LastViewedAt: now.Add(-3 * time.Hour)},
	}, nil)
	f.products.On("GetByItemID", ctx, tee.ItemID).Return(tee, nil)
	f.products.On("GetByItemID", ctx, "AX-gone").Return(nil, repositories.ErrNotFound)
	f.products.On("GetByItemID", ctx, "AX-hidden1").Return(&models.Product{ID: 8, IsHidden: true}, nil)
	f.products.On("GetByItemID", ctx, "5").Return(nil, repositories.ErrNotFound)
	f.products.On("GetByID", ctx, uint(5)).Return(tee, nil)

	entries, err := f.svc.History(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, tee.ItemID, entries[0].Product.ItemID)
}
