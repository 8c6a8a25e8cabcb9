package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const MaxPageSize = 100

// Pagination holds pagination parameters.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"-"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// GetPagination extracts the page and limit from the query parameters.
// It returns a Pagination struct using defaults if parsing fails.
func GetPagination(c *fiber.Ctx, defaultPage, defaultLimit int) Pagination {
	return NewPagination(
		queryInt(c, "page", defaultPage),
		queryInt(c, "limit", defaultLimit),
		defaultLimit,
	)
}

// NewPagination normalises page and limit.
func NewPagination(page, limit, defaultLimit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// TotalPages calculates the number of pages based on the total items and items per page.
func TotalPages(totalItems int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(totalItems) / limit
	if int(totalItems)%limit > 0 {
		pages++
	}
	return pages
}

func (p *Pagination) SetTotal(total int64) {
	p.Total = total
	p.TotalPages = TotalPages(total, p.Limit)
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func NewPaginatedResponse(data interface{}, pagination Pagination) PaginatedResponse {
	return PaginatedResponse{
		Data:       data,
		Pagination: pagination,
	}
}

// PageSlice returns the items of one page of an in-memory result:
// items[(page-1)*perPage : min(page*perPage, len(items))].
func PageSlice[T any](items []T, page, perPage int) []T {
	if page < 1 || perPage < 1 {
		return []T{}
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
