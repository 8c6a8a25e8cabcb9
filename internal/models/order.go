package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	OrderStatusPlaced     = "placed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const PaymentStatusPaid = "paid"

var orderTransitions = map[string]map[string]bool{
	OrderStatusPlaced:     {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing: {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	return orderTransitions[from][to]
}

func IsValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type ShippingDetails struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state"`
	Pincode  string `json:"pincode" validate:"required"`
}

type PaymentDetails struct {
	Provider       string          `json:"provider"`
	GatewayOrderID string          `json:"gatewayOrderId"`
	PaymentID      string          `json:"paymentId"`
	Signature      string          `json:"signature,omitempty"`
	Status         string          `json:"status"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
}

type Order struct {
	ID              uint                                `gorm:"primaryKey" json:"id"`
	OrderNumber     string                              `gorm:"uniqueIndex;not null" json:"orderNumber"`
	UserID          uint                                `gorm:"index;not null" json:"userId"`
	GatewayOrderID  string                              `gorm:"uniqueIndex:idx_orders_gateway_order,where:gateway_order_id <> ''" json:"-"`
	Items           datatypes.JSONSlice[OrderItem]      `json:"items"`
	ShippingDetails datatypes.JSONType[ShippingDetails] `json:"shippingDetails"`
	PaymentDetails  datatypes.JSONType[PaymentDetails]  `json:"paymentDetails"`
	OrderTotal      decimal.Decimal                     `gorm:"type:numeric(12,2);not null" json:"orderTotal"`
	Status          string                              `gorm:"index;not null" json:"status"`
	CreatedAt       time.Time                           `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time                           `json:"updatedAt"`
}
