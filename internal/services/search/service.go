package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/utils"
	"aesthetx/internal/validation"

	"github.com/shopspring/decimal"
)

const (
	SortRelevance = "relevance"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
	SortPopular   = "popular"

	DefaultPerPage = 24
)

// Relevance weights.
const (
	scoreExactName    = 100
	scoreNamePrefix   = 60
	scoreNameContains = 40
	scoreTag          = 25
	scoreCategory     = 20
	scoreColor        = 15
	scoreDescription  = 10
)

type Query struct {
	Text        string
	Category    string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
	SortBy      string
	Page        int
	PerPage     int
}

type Result struct {
	Products   []models.Product `json:"products"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	TotalPages int              `json:"totalPages"`
	SortBy     string           `json:"sortBy"`
}

type Service interface {
	Search(ctx context.Context, q Query) (*Result, error)
}

type service struct {
	repo repositories.ProductRepository
}

func NewService(repo repositories.ProductRepository) Service {
	return &service{repo: repo}
}

func (s *service) Search(ctx context.Context, q Query) (*Result, error) {
	text := strings.TrimSpace(q.Text)
	if len([]rune(text)) < validation.MinSearchQueryLength {
		return nil, apperrors.ErrQueryTooShort
	}

	candidates, err := s.repo.FindMatching(ctx, repositories.SearchCriteria{
		Query:       text,
		Category:    strings.TrimSpace(q.Category),
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		InStockOnly: q.InStockOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	sortBy := NormalizeSort(q.SortBy)
	Sort(candidates, text, sortBy)

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > utils.MaxPageSize {
		perPage = utils.MaxPageSize
	}

	return &Result{
		Products:   utils.PageSlice(candidates, page, perPage),
		Total:      len(candidates),
		Page:       page,
		PerPage:    perPage,
		TotalPages: utils.TotalPages(int64(len(candidates)), perPage),
		SortBy:     sortBy,
	}, nil
}

// NormalizeSort maps unknown sort modes to relevance.
func NormalizeSort(sortBy string) string {
	switch sortBy {
	case SortPriceLow, SortPriceHigh, SortNewest, SortPopular:
		return sortBy
	}
	return SortRelevance
}

// Sort orders products in place for the given mode. Ties fall back to
// buys, then newest first.
func Sort(products []models.Product, query, sortBy string) {
	var scores map[uint]int
	if sortBy == SortRelevance {
		scores = make(map[uint]int, len(products))
		for i := range products {
			scores[products[i].ID] = Score(&products[i], query)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		a, b := &products[i], &products[j]
		switch sortBy {
		case SortPriceLow:
			if c := a.Price.Cmp(b.Price); c != 0 {
				return c < 0
			}
		case SortPriceHigh:
			if c := a.Price.Cmp(b.Price); c != 0 {
				return c > 0
			}
		case SortNewest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		case SortRelevance:
			if scores[a.ID] != scores[b.ID] {
				return scores[a.ID] > scores[b.ID]
			}
		}
		if a.Buys != b.Buys {
			return a.Buys > b.Buys
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// Score rates how well a product matches a query.
func Score(p *models.Product, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	score := 0
	name := strings.ToLower(p.Name)
	switch {
	case name == q:
		score += scoreExactName
	case strings.HasPrefix(name, q):
		score += scoreNamePrefix
	case strings.Contains(name, q):
		score += scoreNameContains
	}
	if anyContains(p.Type, q) || anyContains(p.Subcategories, q) {
		score += scoreTag
	}
	if strings.Contains(strings.ToLower(p.Category), q) {
		score += scoreCategory
	}
	if strings.Contains(strings.ToLower(p.Color), q) {
		score += scoreColor
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		score += scoreDescription
	}
	return score
}

func anyContains(values []string, q string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
