// Package stock turns the per-size and per-colour stock forms into the
// aggregate counts stored on a product.
package stock

import (
	"strings"
	"unicode"

	"aesthetx/internal/models"

	"gorm.io/datatypes"
)

const (
	DimensionSize  = "size"
	DimensionColor = "color"
)

// Dimension returns which key stock is tracked by for a garment type.
func Dimension(garmentType string) string {
	if garmentType == models.GarmentPendant {
		return DimensionColor
	}
	return DimensionSize
}

// ParseStockValue reads the leading integer of a form value. Blank or
// non-numeric input counts as zero and negative values are clamped to zero.
func ParseStockValue(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	negative := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n > 1_000_000_000 {
			n = 1_000_000_000
		}
	}
	if negative {
		return 0
	}
	return n
}

// ParseMap converts a stock form into typed counts.
func ParseMap(form map[string]string) models.StockMap {
	out := make(models.StockMap, len(form))
	for k, v := range form {
		out[k] = ParseStockValue(v)
	}
	return out
}

// Aggregate sums the stock of every available key.
func Aggregate(form map[string]string, available []string) (total int, inStock bool) {
	return AggregateCounts(ParseMap(form), available)
}

// AggregateCounts is Aggregate for already-parsed counts.
func AggregateCounts(counts map[string]int, available []string) (total int, inStock bool) {
	seen := make(map[string]bool, len(available))
	for _, key := range available {
		if seen[key] {
			continue
		}
		seen[key] = true
		if n := counts[key]; n > 0 {
			total += n
		}
	}
	return total, total > 0
}

// Recompute refreshes CurrentStock and InStock from the product's own maps.
func Recompute(p *models.Product) {
	if Dimension(p.GarmentType) == DimensionColor {
		p.CurrentStock, p.InStock = AggregateCounts(p.ColorStock.Data(), p.AvailableColors)
		return
	}
	p.CurrentStock, p.InStock = AggregateCounts(p.SizeStock.Data(), p.AvailableSizes)
}

// Adjust changes the units for one key by delta and recomputes the totals.
// The count never drops below zero.
func Adjust(p *models.Product, key string, delta int) {
	if Dimension(p.GarmentType) == DimensionColor {
		p.ColorStock = adjusted(p.ColorStock.Data(), key, delta)
	} else {
		p.SizeStock = adjusted(p.SizeStock.Data(), key, delta)
	}
	Recompute(p)
}

func adjusted(counts models.StockMap, key string, delta int) datatypes.JSONType[models.StockMap] {
	next := make(models.StockMap, len(counts)+1)
	for k, v := range counts {
		next[k] = v
	}
	next[key] += delta
	if next[key] < 0 {
		next[key] = 0
	}
	return datatypes.NewJSONType(next)
}
