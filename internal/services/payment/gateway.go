package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aesthetx/internal/config"

	"github.com/shopspring/decimal"
)

const (
	ProviderRazorpay = "razorpay"
	ProviderStripe   = "stripe"

	requestTimeout = 10 * time.Second
)

var hundred = decimal.NewFromInt(100)

// Order is a payment order opened with the provider.
type Order struct {
	GatewayOrderID string `json:"gatewayOrderId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	ClientSecret   string `json:"clientSecret,omitempty"`
}

type VerifyInput struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
	// ExpectedAmount is in minor units. Zero skips the amount check.
	ExpectedAmount int64
}

type Gateway interface {
	Name() string
	// KeyID is the public key the browser checkout needs.
	KeyID() string
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*Order, error)
	// Verify returns nil only for a captured, authentic payment.
	Verify(ctx context.Context, in VerifyInput) error
}

// ToMinorUnits converts an amount to the smallest currency unit, rounding
// half up.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// NewGateway builds the gateway selected by PAYMENT_PROVIDER.
func NewGateway(cfg config.PaymentConfig) (Gateway, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderRazorpay, "":
		if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
			return nil, fmt.Errorf("razorpay credentials are not configured")
		}
		return NewRazorpay(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret), nil
	case ProviderStripe:
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("stripe secret key is not configured")
		}
		return NewStripe(cfg.StripeSecretKey), nil
	}
	return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
}
