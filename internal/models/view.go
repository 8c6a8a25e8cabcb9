package models

import "time"

const (
	ViewTypePage           = "page"
	ViewTypeQuickView      = "quick_view"
	ViewTypeRecommendation = "recommendation"
)

func IsValidViewType(t string) bool {
	switch t {
	case ViewTypePage, ViewTypeQuickView, ViewTypeRecommendation:
		return true
	}
	return false
}

// View is one append-only product view. ProductID holds the reference the
// client used: an itemId or a numeric id.
type View struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID string    `gorm:"index;not null" json:"productId"`
	UserID    *uint     `gorm:"index" json:"userId,omitempty"`
	SessionID string    `gorm:"index" json:"sessionId"`
	ViewedAt  time.Time `gorm:"index" json:"viewedAt"`
	ViewType  string    `json:"viewType"`
	Category  string    `gorm:"index" json:"category"`
	IsDeleted bool      `gorm:"index" json:"isDeleted"`
}

// ViewStat is the per-product aggregate produced when ranking views.
type ViewStat struct {
	ProductID      string `json:"productId"`
	ViewCount      int    `json:"viewCount"`
	UniqueUsers    int    `json:"uniqueUsers"`
	UniqueSessions int    `json:"uniqueSessions"`
}

type ProductViewStats struct {
	TotalViews     int64 `json:"totalViews"`
	UniqueUsers    int64 `json:"uniqueUsers"`
	UniqueSessions int64 `json:"uniqueSessions"`
}

// TrendingProduct pairs a product with its view statistics.
type TrendingProduct struct {
	Product
	ViewCount      int  `json:"viewCount"`
	UniqueUsers    int  `json:"uniqueUsers"`
	UniqueSessions int  `json:"uniqueSessions"`
	Fallback       bool `json:"fallback,omitempty"`
}
