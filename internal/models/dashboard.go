package models

import "github.com/shopspring/decimal"

// DashboardStats is the admin overview of the store
type DashboardStats struct {
	Products ProductTotals     `json:"products"`
	Orders   OrderTotals       `json:"orders"`
	Users    UserTotals        `json:"users"`
	Views    ViewTotals        `json:"views"`
	Trending []TrendingProduct `json:"trending"`
}

type ProductTotals struct {
	Total      int64 `json:"total"`
	Hidden     int64 `json:"hidden"`
	OutOfStock int64 `json:"outOfStock"`
}

type OrderTotals struct {
	Total    int64            `json:"total"`
	Revenue  decimal.Decimal  `json:"revenue"`
	ByStatus map[string]int64 `json:"byStatus"`
}

type UserTotals struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Admins int64 `json:"admins"`
}

type ViewTotals struct {
	Total int64 `json:"total"`
}
