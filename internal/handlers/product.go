package handlers

import (
	"strings"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/services/product"
	"aesthetx/internal/services/search"
	"aesthetx/internal/services/trending"
	"aesthetx/internal/services/view"
	"aesthetx/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const defaultCatalogPageSize = 24

// ProductHandler serves the public catalogue.
type ProductHandler struct {
	productService  product.Service
	searchService   search.Service
	trendingService trending.Service
	viewService     view.Service
}

func NewProductHandler(productSvc product.Service, searchSvc search.Service, trendingSvc trending.Service, viewSvc view.Service) *ProductHandler {
	return &ProductHandler{
		productService:  productSvc,
		searchService:   searchSvc,
		trendingService: trendingSvc,
		viewService:     viewSvc,
	}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, defaultCatalogPageSize)
	products, total, err := h.productService.List(c.UserContext(), c.Query("category"), p.Offset, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(products, p))
}

func (h *ProductHandler) Search(c *fiber.Ctx) error {
	minPrice, err := queryDecimal(c, "minPrice")
	if err != nil {
		return respondError(c, err)
	}
	maxPrice, err := queryDecimal(c, "maxPrice")
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.searchService.Search(c.UserContext(), search.Query{
		Text:        c.Query("q"),
		Category:    c.Query("category"),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		InStockOnly: c.QueryBool("inStock", false),
		SortBy:      c.Query("sortBy"),
		Page:        c.QueryInt("page", 1),
		PerPage:     c.QueryInt("limit", search.DefaultPerPage),
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, result)
}

func (h *ProductHandler) Trending(c *fiber.Ctx) error {
	products, err := h.trendingService.MostViewed(c.UserContext(), c.Query("category"), c.QueryInt("limit", trending.DefaultLimit))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"products": products})
}

func (h *ProductHandler) NewArrivals(c *fiber.Ctx) error {
	products, err := h.productService.NewArrivals(c.UserContext(), c.QueryInt("limit", product.DefaultShelfSize))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"products": products})
}

func (h *ProductHandler) BestSellers(c *fiber.Ctx) error {
	products, err := h.productService.BestSellers(c.UserContext(), c.QueryInt("limit", product.DefaultShelfSize))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"products": products})
}

// Get returns a visible product with its view statistics.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	ref := c.Params("itemId")
	p, err := h.productService.Get(c.UserContext(), ref, false)
	if err != nil {
		return respondError(c, err)
	}

	stats, err := h.viewService.ProductStats(c.UserContext(), p.ItemID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"product": p, "stats": stats})
}

func (h *ProductHandler) Related(c *fiber.Ctx) error {
	products, err := h.trendingService.Related(c.UserContext(), c.Params("itemId"), c.QueryInt("limit", trending.DefaultRelatedLimit))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"products": products})
}

// RecordView stores a product view for signed-in and anonymous visitors.
func (h *ProductHandler) RecordView(c *fiber.Ctx) error {
	var input view.RecordInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	input.ProductRef = c.Params("itemId")
	input.UserID = utils.OptionalUserID(c)

	recorded, err := h.viewService.Record(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"recorded": recorded})
}

func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, apperrors.NewValidation(map[string]string{key: "must be a non-negative number"})
	}
	return &d, nil
}
