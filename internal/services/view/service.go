package view

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/repositories/cache"
	"aesthetx/internal/services/product"
)

const DefaultHistoryLimit = 20

type RecordInput struct {
	ProductRef string
	UserID     *uint
	SessionID  string `json:"sessionId"`
	ViewType   string `json:"viewType"`
	Category   string `json:"category"`
}

// HistoryEntry is a product the user looked at and when they last did.
type HistoryEntry struct {
	Product      *models.Product `json:"product"`
	LastViewedAt time.Time       `json:"lastViewedAt"`
}

type Service interface {
	// Record stores a view. It reports false when the view was a repeat
	// from the same session inside the de-duplication window.
	Record(ctx context.Context, input RecordInput) (bool, error)
	ProductStats(ctx context.Context, productRef string) (models.ProductViewStats, error)
	History(ctx context.Context, userID uint, limit int) ([]HistoryEntry, error)
	ClearHistory(ctx context.Context, userID uint) (int64, error)
}

type service struct {
	views    repositories.ViewRepository
	products repositories.ProductRepository
	cache    repositories.Cache
	now      func() time.Time
}

func NewService(views repositories.ViewRepository, products repositories.ProductRepository, cache repositories.Cache) Service {
	return &service{
		views:    views,
		products: products,
		cache:    cache,
		now:      time.Now,
	}
}

func (s *service) Record(ctx context.Context, input RecordInput) (bool, error) {
	ref := strings.TrimSpace(input.ProductRef)
	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		return false, apperrors.NewValidation(map[string]string{"sessionId": "must not be empty"})
	}
	viewType := input.ViewType
	if viewType == "" {
		viewType = models.ViewTypePage
	}
	if !models.IsValidViewType(viewType) {
		return false, apperrors.NewValidation(map[string]string{
			"viewType": "must be one of page, quick_view, recommendation",
		})
	}

	p, err := product.Resolve(ctx, s.products, ref)
	if err != nil {
		return false, err
	}

	key := cache.GenerateKey(cache.KeyViewDedup, sessionID, p.ID)
	fresh, err := s.cache.SetNX(ctx, key, cache.TTLViewDedup)
	if err != nil {
		log.Printf("view dedup unavailable, recording anyway: %v", err)
	} else if !fresh {
		return false, nil
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = p.Category
	}

	v := &models.View{
		ProductID: p.ItemID,
		UserID:    input.UserID,
		SessionID: sessionID,
		ViewedAt:  s.now(),
		ViewType:  viewType,
		Category:  category,
	}
	if err := s.views.Create(ctx, v); err != nil {
		return false, fmt.Errorf("record view: %w", err)
	}
	return true, nil
}

func (s *service) ProductStats(ctx context.Context, productRef string) (models.ProductViewStats, error) {
	p, err := product.Resolve(ctx, s.products, productRef)
	if err != nil {
		return models.ProductViewStats{}, err
	}
	return s.views.StatsFor(ctx, []string{p.ItemID, strconv.FormatUint(uint64(p.ID), 10)})
}

func (s *service) History(ctx context.Context, userID uint, limit int) ([]HistoryEntry, error) {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	rows, err := s.views.History(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("view history: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(rows))
	seen := make(map[uint]bool, len(rows))
	for _, row := range rows {
		p, err := product.Resolve(ctx, s.products, row.ProductID)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				continue
			}
			return nil, err
		}
		if p.IsHidden || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		entries = append(entries, HistoryEntry{Product: p, LastViewedAt: row.LastViewedAt})
	}
	return entries, nil
}

func (s *service) ClearHistory(ctx context.Context, userID uint) (int64, error) {
	n, err := s.views.SoftDeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear view history: %w", err)
	}
	return n, nil
}
