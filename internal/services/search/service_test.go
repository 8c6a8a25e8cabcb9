package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/repositories/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSearchRejectsShortQuery(t *testing.T) {
	repo := new(mocks.ProductRepository)
	svc := NewService(repo)

	_, err := svc.Search(context.Background(), Query{Text: "  a "})
	assert.ErrorIs(t, err, apperrors.ErrQueryTooShort)
	repo.AssertNotCalled(t, "FindMatching", mock.Anything, mock.Anything)
}

func TestSearchPaginatesInMemory(t *testing.T) {
	repo := new(mocks.ProductRepository)
	svc := NewService(repo)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	products := make([]models.Product, 30)
	for i := range products {
		products[i] = models.Product{
			ID:        uint(i + 1),
			Name:      fmt.Sprintf("Tee %02d", i),
			Price:     decimal.NewFromInt(int64(100 + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	repo.On("FindMatching", ctx, repositories.SearchCriteria{Query: "tee"}).Return(products, nil)

	page1, err := svc.Search(ctx, Query{Text: "tee", SortBy: SortPriceLow, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 30, page1.Total)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Equal(t, DefaultPerPage, page1.PerPage)
	require.Len(t, page1.Products, 24)
	assert.Equal(t, uint(1), page1.Products[0].ID)
	assert.Equal(t, uint(24), page1.Products[23].ID)

	page2, err := svc.Search(ctx, Query{Text: "tee", SortBy: SortPriceLow, Page: 2})
	require.NoError(t, err)
	require.Len(t, page2.Products, 6)
	assert.Equal(t, uint(25), page2.Products[0].ID)
	assert.Equal(t, uint(30), page2.Products[5].ID)

	page3, err := svc.Search(ctx, Query{Text: "tee", SortBy: SortPriceLow, Page: 3})
	require.NoError(t, err)
	assert.Empty(t, page3.Products)
}

func TestScoreWeights(t *testing.T) {
	tests := []struct {
		name    string
		product models.Product
		want    int
	}{
		{"exact name", models.Product{Name: "Hoodie"}, 100},
		{"name prefix", models.Product{Name: "Hoodie Black"}, 60},
		{"name contains", models.Product{Name: "Zip Hoodie"}, 40},
		{"type", models.Product{Name: "Top", Type: []string{"hoodie"}}, 25},
		{"category", models.Product{Name: "Top", Category: "Hoodies"}, 20},
		{"colour", models.Product{Name: "Top", Color: "hoodie grey"}, 15},
		{"description", models.Product{Name: "Top", Description: "a warm hoodie"}, 10},
		{"combined", models.Product{Name: "Hoodie", Category: "Hoodies", Description: "hoodie"}, 130},
		{"none", models.Product{Name: "Cap"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(&tt.product, " HOODIE "))
		})
	}
}

func TestRelevanceTiesBreakOnBuys(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "Zip Hoodie", Buys: 1},
		{ID: 2, Name: "Hoodie"},
		{ID: 3, Name: "Pullover Hoodie", Buys: 9},
	}
	Sort(products, "hoodie", SortRelevance)

	assert.Equal(t, []uint{2, 3, 1}, []uint{products[0].ID, products[1].ID, products[2].ID})
}

func TestNormalizeSort(t *testing.T) {
	assert.Equal(t, SortRelevance, NormalizeSort("cheapest"))
	assert.Equal(t, SortPopular, NormalizeSort(SortPopular))
}
