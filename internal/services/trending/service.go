package trending

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/repositories/cache"
	"aesthetx/internal/services/product"
	"aesthetx/internal/utils"
)

const (
	DefaultLimit        = 8
	DefaultRelatedLimit = 4
)

type Service interface {
	MostViewed(ctx context.Context, category string, limit int) ([]models.TrendingProduct, error)
	Related(ctx context.Context, itemID string, limit int) ([]models.Product, error)
}

type service struct {
	views    repositories.ViewRepository
	products repositories.ProductRepository
	cache    repositories.Cache
}

func NewService(views repositories.ViewRepository, products repositories.ProductRepository, cache repositories.Cache) Service {
	return &service{views: views, products: products, cache: cache}
}

// Rank groups active views by product reference and orders them by view
// count. Equal counts keep the order in which the products first appeared.
func Rank(views []models.View) []models.ViewStat {
	type tally struct {
		stat     models.ViewStat
		users    map[uint]struct{}
		sessions map[string]struct{}
		first    int
	}

	byRef := make(map[string]*tally)
	for i, v := range views {
		if v.IsDeleted {
			continue
		}
		t, ok := byRef[v.ProductID]
		if !ok {
			t = &tally{
				stat:     models.ViewStat{ProductID: v.ProductID},
				users:    make(map[uint]struct{}),
				sessions: make(map[string]struct{}),
				first:    i,
			}
			byRef[v.ProductID] = t
		}
		t.stat.ViewCount++
		if v.UserID != nil {
			t.users[*v.UserID] = struct{}{}
		}
		if v.SessionID != "" {
			t.sessions[v.SessionID] = struct{}{}
		}
	}

	tallies := make([]*tally, 0, len(byRef))
	for _, t := range byRef {
		t.stat.UniqueUsers = len(t.users)
		t.stat.UniqueSessions = len(t.sessions)
		tallies = append(tallies, t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].stat.ViewCount != tallies[j].stat.ViewCount {
			return tallies[i].stat.ViewCount > tallies[j].stat.ViewCount
		}
		return tallies[i].first < tallies[j].first
	})

	stats := make([]models.ViewStat, len(tallies))
	for i, t := range tallies {
		stats[i] = t.stat
	}
	return stats
}

func (s *service) MostViewed(ctx context.Context, category string, limit int) ([]models.TrendingProduct, error) {
	category = strings.TrimSpace(category)
	limit = clamp(limit, DefaultLimit)

	key := cache.GenerateKey(cache.KeyTrending, strings.ToLower(category), limit)
	var cached []models.TrendingProduct
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	} else if err != nil {
		log.Printf("trending cache read failed: %v", err)
	}

	views, err := s.views.ListActive(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}

	views, byItem, err := s.canonicalize(ctx, views)
	if err != nil {
		return nil, err
	}

	result := ranked(Rank(views), byItem, limit)
	if len(result) == 0 {
		if result, err = s.newestFallback(ctx, category, limit); err != nil {
			return nil, err
		}
	}

	if err := s.cache.SetWithTTL(ctx, key, result, cache.TTLTrending); err != nil {
		log.Printf("Failed to cache trending products: %v", err)
	}
	return result, nil
}

// canonicalize rewrites each view to the itemId of the product it refers
// to, so views stored under a numeric id are tallied with the rest. Views of
// missing or hidden products are dropped.
func (s *service) canonicalize(ctx context.Context, views []models.View) ([]models.View, map[string]*models.Product, error) {
	byRef := make(map[string]*models.Product)
	byItem := make(map[string]*models.Product)
	out := make([]models.View, 0, len(views))
	for _, v := range views {
		if v.IsDeleted {
			continue
		}
		p, seen := byRef[v.ProductID]
		if !seen {
			resolved, err := product.Resolve(ctx, s.products, v.ProductID)
			if err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
				return nil, nil, err
			}
			if err == nil && !resolved.IsHidden {
				p = resolved
			}
			byRef[v.ProductID] = p
		}
		if p == nil {
			continue
		}
		byItem[p.ItemID] = p
		v.ProductID = p.ItemID
		out = append(out, v)
	}
	return out, byItem, nil
}

// ranked takes the first limit ranked products.
func ranked(stats []models.ViewStat, byItem map[string]*models.Product, limit int) []models.TrendingProduct {
	result := make([]models.TrendingProduct, 0, limit)
	for _, stat := range stats {
		if len(result) == limit {
			break
		}
		p, ok := byItem[stat.ProductID]
		if !ok {
			continue
		}
		result = append(result, models.TrendingProduct{
			Product:        *p,
			ViewCount:      stat.ViewCount,
			UniqueUsers:    stat.UniqueUsers,
			UniqueSessions: stat.UniqueSessions,
		})
	}
	return result
}

func (s *service) newestFallback(ctx context.Context, category string, limit int) ([]models.TrendingProduct, error) {
	products, _, err := s.products.List(ctx, repositories.ProductFilter{
		Category:    category,
		VisibleOnly: true,
	}, repositories.OrderNewest, 0, limit)
	if err != nil {
		return nil, fmt.Errorf("load newest products: %w", err)
	}
	result := make([]models.TrendingProduct, len(products))
	for i, p := range products {
		result[i] = models.TrendingProduct{Product: p, Fallback: true}
	}
	return result, nil
}

func (s *service) Related(ctx context.Context, itemID string, limit int) ([]models.Product, error) {
	limit = clamp(limit, DefaultRelatedLimit)

	base, err := product.Resolve(ctx, s.products, itemID)
	if err != nil {
		return nil, err
	}
	if base.IsHidden {
		return nil, apperrors.ErrProductNotFound
	}

	sameCategory, _, err := s.products.List(ctx, repositories.ProductFilter{
		Category:    base.Category,
		VisibleOnly: true,
		ExcludeID:   base.ID,
	}, repositories.OrderBestSeller, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("load related products: %w", err)
	}

	scores := make(map[uint]int, len(sameCategory))
	for i := range sameCategory {
		scores[sameCategory[i].ID] = RelatedScore(base, &sameCategory[i])
	}
	sort.SliceStable(sameCategory, func(i, j int) bool {
		a, b := &sameCategory[i], &sameCategory[j]
		if scores[a.ID] != scores[b.ID] {
			return scores[a.ID] > scores[b.ID]
		}
		if a.Buys != b.Buys {
			return a.Buys > b.Buys
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	related := sameCategory
	if len(related) >= limit {
		return related[:limit], nil
	}

	taken := map[uint]bool{base.ID: true}
	for _, p := range related {
		taken[p.ID] = true
	}
	sellers, _, err := s.products.List(ctx, repositories.ProductFilter{VisibleOnly: true},
		repositories.OrderBestSeller, 0, limit+len(taken))
	if err != nil {
		return nil, fmt.Errorf("load best sellers: %w", err)
	}
	for _, p := range sellers {
		if len(related) == limit {
			break
		}
		if taken[p.ID] {
			continue
		}
		taken[p.ID] = true
		related = append(related, p)
	}
	return related, nil
}

// RelatedScore weighs shared types double, shared subcategories and a
// matching garment type once each.
func RelatedScore(base, other *models.Product) int {
	score := 2*overlap(base.Type, other.Type) + overlap(base.Subcategories, other.Subcategories)
	if base.GarmentType != "" && base.GarmentType == other.GarmentType {
		score++
	}
	return score
}

func overlap(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[strings.ToLower(v)] = true
	}
	n := 0
	for _, v := range b {
		if set[strings.ToLower(v)] {
			n++
			delete(set, strings.ToLower(v))
		}
	}
	return n
}

func clamp(limit, def int) int {
	if limit < 1 {
		return def
	}
	if limit > utils.MaxPageSize {
		return utils.MaxPageSize
	}
	return limit
}
