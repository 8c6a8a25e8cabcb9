// Package events defines the domain events the storefront publishes and
// the publishers that deliver them.
package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventUserSignedUp       = "UserSignedUp"
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

const (
	TopicUserSignedUp       = "aesthetx.user.signed_up"
	TopicOrderPlaced        = "aesthetx.order.placed"
	TopicOrderStatusChanged = "aesthetx.order.status_changed"
)

// Topics lists every topic the notifier subscribes to.
var Topics = []string{TopicUserSignedUp, TopicOrderPlaced, TopicOrderStatusChanged}

type Envelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	EventVersion  int             `json:"eventVersion"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlationId,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type UserSignedUpPayload struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type OrderLine struct {
	Name     string          `json:"name"`
	Size     string          `json:"size,omitempty"`
	Color    string          `json:"color,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OrderPlacedPayload struct {
	OrderNumber string          `json:"orderNumber"`
	UserID      uint            `json:"userId"`
	Email       string          `json:"email"`
	FullName    string          `json:"fullName"`
	Items       []OrderLine     `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	PlacedAt    time.Time       `json:"placedAt"`
}

type OrderStatusChangedPayload struct {
	OrderNumber string `json:"orderNumber"`
	UserID      uint   `json:"userId"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	From        string `json:"from"`
	To          string `json:"to"`
}
