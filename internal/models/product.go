package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GarmentUpper   = "upper"
	GarmentLower   = "lower"
	GarmentPendant = "pendant"
)

func init() {
	// prices travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// StockMap holds the units on hand per size or per colour.
type StockMap map[string]int

type Product struct {
	ID              uint                         `gorm:"primaryKey" json:"id"`
	ItemID          string                       `gorm:"uniqueIndex;not null" json:"itemId"`
	Name            string                       `gorm:"not null" json:"name"`
	Category        string                       `gorm:"index;not null" json:"category"`
	Subcategories   pq.StringArray               `gorm:"type:text[]" json:"subcategories"`
	Type            pq.StringArray               `gorm:"type:text[]" json:"type"`
	Price           decimal.Decimal              `gorm:"type:numeric(12,2);not null" json:"price"`
	Description     string                       `json:"description"`
	MainImage       string                       `json:"mainImage"`
	OtherImages     pq.StringArray               `gorm:"type:text[]" json:"otherImages"`
	Color           string                       `json:"color"`
	GarmentType     string                       `gorm:"not null" json:"garmentType"`
	AvailableSizes  pq.StringArray               `gorm:"type:text[]" json:"availableSizes"`
	SizeStock       datatypes.JSONType[StockMap] `json:"sizeStock"`
	AvailableColors pq.StringArray               `gorm:"type:text[]" json:"availableColors"`
	ColorStock      datatypes.JSONType[StockMap] `json:"colorStock"`
	CurrentStock    int                          `json:"currentStock"`
	InStock         bool                         `gorm:"index" json:"inStock"`
	Buys            int                          `gorm:"index" json:"buys"`
	IsHidden        bool                         `gorm:"index" json:"isHidden"`
	IsVisible       bool                         `gorm:"-" json:"isVisible"`
	CreatedAt       time.Time                    `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.IsVisible = !p.IsHidden
	return nil
}

func (p *Product) AfterSave(tx *gorm.DB) error {
	p.IsVisible = !p.IsHidden
	return nil
}

// UsesColorStock reports whether stock is tracked per colour rather than per size.
func (p *Product) UsesColorStock() bool {
	return p.GarmentType == GarmentPendant
}

// StockFor returns the units available for a size or colour key, depending on
// the garment type.
func (p *Product) StockFor(size, color string) (available bool, units int) {
	if p.UsesColorStock() {
		if !contains(p.AvailableColors, color) {
			return false, 0
		}
		return true, p.ColorStock.Data()[color]
	}
	if !contains(p.AvailableSizes, size) {
		return false, 0
	}
	return true, p.SizeStock.Data()[size]
}

func IsValidGarmentType(t string) bool {
	switch t {
	case GarmentUpper, GarmentLower, GarmentPendant:
		return true
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
