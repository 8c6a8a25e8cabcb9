package product

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/repositories/cache"
	"aesthetx/internal/services/stock"
	"aesthetx/internal/utils"
	"aesthetx/internal/validation"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const DefaultShelfSize = 8

type Input struct {
	Name            string            `json:"name" validate:"required,max=200"`
	Category        string            `json:"category" validate:"required,max=100"`
	Subcategories   []string          `json:"subcategories"`
	Type            []string          `json:"type"`
	Price           decimal.Decimal   `json:"price"`
	Description     string            `json:"description" validate:"max=5000"`
	MainImage       string            `json:"mainImage" validate:"required"`
	OtherImages     []string          `json:"otherImages"`
	Color           string            `json:"color"`
	GarmentType     string            `json:"garmentType" validate:"required,oneof=upper lower pendant"`
	AvailableSizes  []string          `json:"availableSizes"`
	AvailableColors []string          `json:"availableColors"`
	Stock           map[string]string `json:"stock"`
	IsHidden        bool              `json:"isHidden"`
}

// Update is a partial product edit. Nil fields are left alone.
type Update struct {
	Name            *string           `json:"name" validate:"omitempty,min=1,max=200"`
	Category        *string           `json:"category" validate:"omitempty,min=1,max=100"`
	Subcategories   []string          `json:"subcategories"`
	Type            []string          `json:"type"`
	Price           *decimal.Decimal  `json:"price"`
	Description     *string           `json:"description" validate:"omitempty,max=5000"`
	MainImage       *string           `json:"mainImage" validate:"omitempty,min=1"`
	OtherImages     []string          `json:"otherImages"`
	Color           *string           `json:"color"`
	GarmentType     *string           `json:"garmentType" validate:"omitempty,oneof=upper lower pendant"`
	AvailableSizes  []string          `json:"availableSizes"`
	AvailableColors []string          `json:"availableColors"`
	Stock           map[string]string `json:"stock"`
	IsHidden        *bool             `json:"isHidden"`
}

type AdminFilter struct {
	Category   string
	Hidden     *bool
	OutOfStock bool
	Search     string
}

type Service interface {
	Create(ctx context.Context, input Input) (*models.Product, error)
	Update(ctx context.Context, itemID string, update Update) (*models.Product, error)
	SetVisibility(ctx context.Context, itemID string, hidden bool) (*models.Product, error)
	UpdateStock(ctx context.Context, itemID string, form map[string]string) (*models.Product, error)
	Delete(ctx context.Context, itemID string) error

	// Get returns a product by itemId or numeric id. Hidden products are
	// only returned when includeHidden is set.
	Get(ctx context.Context, ref string, includeHidden bool) (*models.Product, error)
	List(ctx context.Context, category string, offset, limit int) ([]models.Product, int64, error)
	NewArrivals(ctx context.Context, limit int) ([]models.Product, error)
	BestSellers(ctx context.Context, limit int) ([]models.Product, error)
	AdminList(ctx context.Context, filter AdminFilter, offset, limit int) ([]models.Product, int64, error)
}

type service struct {
	repo  repositories.ProductRepository
	cache repositories.Cache
}

func NewService(repo repositories.ProductRepository, cache repositories.Cache) Service {
	return &service{repo: repo, cache: cache}
}

// Resolve looks a product up by itemId, falling back to its numeric id.
func Resolve(ctx context.Context, repo repositories.ProductRepository, ref string) (*models.Product, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperrors.ErrProductNotFound
	}

	p, err := repo.GetByItemID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	id, convErr := strconv.ParseUint(ref, 10, 64)
	if convErr != nil || id == 0 {
		return nil, apperrors.ErrProductNotFound
	}
	p, err = repo.GetByID(ctx, uint(id))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrProductNotFound
	}
	return p, err
}

func (s *service) Create(ctx context.Context, input Input) (*models.Product, error) {
	fields := validation.Struct(input)
	if fields == nil {
		fields = map[string]string{}
	}
	v := &validation.Validator{Errors: fields}
	v.Check(input.Price.IsPositive(), "price", "must be greater than 0")
	if input.GarmentType == models.GarmentPendant {
		v.Required("availableColors", input.AvailableColors)
	} else {
		v.Required("availableSizes", input.AvailableSizes)
	}
	if err := apperrors.NewValidation(v.Errors); err != nil {
		return nil, err
	}

	p := &models.Product{
		ItemID:          utils.GenerateItemID(),
		Name:            strings.TrimSpace(input.Name),
		Category:        strings.TrimSpace(input.Category),
		Subcategories:   cleanList(input.Subcategories),
		Type:            cleanList(input.Type),
		Price:           input.Price.Round(2),
		Description:     strings.TrimSpace(input.Description),
		MainImage:       strings.TrimSpace(input.MainImage),
		OtherImages:     cleanList(input.OtherImages),
		Color:           strings.TrimSpace(input.Color),
		GarmentType:     input.GarmentType,
		AvailableSizes:  cleanList(input.AvailableSizes),
		AvailableColors: cleanList(input.AvailableColors),
		IsHidden:        input.IsHidden,
	}
	applyStockForm(p, input.Stock)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.evictTrending(ctx)
	log.Printf("product %s created (%s, stock %d)", p.ItemID, p.Name, p.CurrentStock)
	return p, nil
}

func (s *service) Update(ctx context.Context, itemID string, update Update) (*models.Product, error) {
	if fields := validation.Struct(update); fields != nil {
		return nil, apperrors.NewValidation(fields)
	}
	if update.Price != nil && !update.Price.IsPositive() {
		return nil, apperrors.NewValidation(map[string]string{"price": "must be greater than 0"})
	}

	p, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		p.Name = strings.TrimSpace(*update.Name)
	}
	if update.Category != nil {
		p.Category = strings.TrimSpace(*update.Category)
	}
	if update.Subcategories != nil {
		p.Subcategories = cleanList(update.Subcategories)
	}
	if update.Type != nil {
		p.Type = cleanList(update.Type)
	}
	if update.Price != nil {
		p.Price = update.Price.Round(2)
	}
	if update.Description != nil {
		p.Description = strings.TrimSpace(*update.Description)
	}
	if update.MainImage != nil {
		p.MainImage = strings.TrimSpace(*update.MainImage)
	}
	if update.OtherImages != nil {
		p.OtherImages = cleanList(update.OtherImages)
	}
	if update.Color != nil {
		p.Color = strings.TrimSpace(*update.Color)
	}
	if update.IsHidden != nil {
		p.IsHidden = *update.IsHidden
	}

	stockChanged := false
	if update.GarmentType != nil && *update.GarmentType != p.GarmentType {
		p.GarmentType = *update.GarmentType
		stockChanged = true
	}
	if update.AvailableSizes != nil {
		p.AvailableSizes = cleanList(update.AvailableSizes)
		stockChanged = true
	}
	if update.AvailableColors != nil {
		p.AvailableColors = cleanList(update.AvailableColors)
		stockChanged = true
	}
	if update.Stock != nil {
		applyStockForm(p, update.Stock)
	} else if stockChanged {
		stock.Recompute(p)
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.evictTrending(ctx)
	return p, nil
}

func (s *service) SetVisibility(ctx context.Context, itemID string, hidden bool) (*models.Product, error) {
	p, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	p.IsHidden = hidden
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("set visibility: %w", err)
	}
	s.evictTrending(ctx)
	return p, nil
}

func (s *service) UpdateStock(ctx context.Context, itemID string, form map[string]string) (*models.Product, error) {
	p, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	applyStockForm(p, form)
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, itemID string) error {
	p, err := s.load(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.evictTrending(ctx)
	log.Printf("product %s deleted", p.ItemID)
	return nil
}

func (s *service) Get(ctx context.Context, ref string, includeHidden bool) (*models.Product, error) {
	p, err := Resolve(ctx, s.repo, ref)
	if err != nil {
		return nil, err
	}
	if p.IsHidden && !includeHidden {
		return nil, apperrors.ErrProductNotFound
	}
	return p, nil
}

func (s *service) List(ctx context.Context, category string, offset, limit int) ([]models.Product, int64, error) {
	return s.repo.List(ctx, repositories.ProductFilter{
		Category:    strings.TrimSpace(category),
		VisibleOnly: true,
	}, repositories.OrderNewest, offset, limit)
}

func (s *service) NewArrivals(ctx context.Context, limit int) ([]models.Product, error) {
	products, _, err := s.repo.List(ctx, repositories.ProductFilter{VisibleOnly: true},
		repositories.OrderNewest, 0, shelfSize(limit))
	return products, err
}

func (s *service) BestSellers(ctx context.Context, limit int) ([]models.Product, error) {
	products, _, err := s.repo.List(ctx, repositories.ProductFilter{VisibleOnly: true},
		repositories.OrderBestSeller, 0, shelfSize(limit))
	return products, err
}

func (s *service) AdminList(ctx context.Context, filter AdminFilter, offset, limit int) ([]models.Product, int64, error) {
	return s.repo.List(ctx, repositories.ProductFilter{
		Category:   strings.TrimSpace(filter.Category),
		Hidden:     filter.Hidden,
		OutOfStock: filter.OutOfStock,
		Search:     filter.Search,
	}, repositories.OrderNewest, offset, limit)
}

func (s *service) load(ctx context.Context, itemID string) (*models.Product, error) {
	p, err := s.repo.GetByItemID(ctx, strings.TrimSpace(itemID))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrProductNotFound
	}
	return p, err
}

func (s *service) evictTrending(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cache.KeyTrendingPattern); err != nil {
		log.Printf("Warning: Failed to invalidate trending cache: %v", err)
	}
}

// applyStockForm stores the stock form on the map the garment type tracks
// and recomputes the totals.
func applyStockForm(p *models.Product, form map[string]string) {
	counts := stock.ParseMap(form)
	if stock.Dimension(p.GarmentType) == stock.DimensionColor {
		p.ColorStock = datatypes.NewJSONType(counts)
		p.SizeStock = datatypes.NewJSONType(models.StockMap{})
	} else {
		p.SizeStock = datatypes.NewJSONType(counts)
		p.ColorStock = datatypes.NewJSONType(models.StockMap{})
	}
	stock.Recompute(p)
}

func shelfSize(limit int) int {
	if limit < 1 {
		return DefaultShelfSize
	}
	if limit > utils.MaxPageSize {
		return utils.MaxPageSize
	}
	return limit
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
