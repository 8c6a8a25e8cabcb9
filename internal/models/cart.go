package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex:idx_cart_line;not null" json:"userId"`
	ProductID uint            `gorm:"uniqueIndex:idx_cart_line;not null" json:"productId"`
	ItemID    string          `json:"itemId"`
	Size      string          `gorm:"uniqueIndex:idx_cart_line" json:"size"`
	Color     string          `gorm:"uniqueIndex:idx_cart_line" json:"color"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	AddedAt   time.Time       `gorm:"autoCreateTime" json:"addedAt"`
}

type Cart struct {
	Items     []CartItem      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type WishlistItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex:idx_wishlist_line;not null" json:"userId"`
	ProductID uint            `gorm:"uniqueIndex:idx_wishlist_line;not null" json:"productId"`
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	AddedAt   time.Time       `gorm:"autoCreateTime" json:"addedAt"`
}
