package models

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"uniqueIndex:idx_review_product_user;not null" json:"productId"`
	UserID    uint      `gorm:"uniqueIndex:idx_review_product_user;not null" json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `gorm:"not null" json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	Size      string    `json:"size,omitempty"`
	Recommend bool      `json:"recommend"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// ReviewSummary aggregates the reviews of one product.
type ReviewSummary struct {
	Count            int         `json:"count"`
	Average          float64     `json:"average"`
	Distribution     map[int]int `json:"distribution"`
	RecommendPercent int         `json:"recommendPercent"`
}
