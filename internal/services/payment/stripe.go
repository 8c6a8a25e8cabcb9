package payment

import (
	"context"
	"fmt"
	"strings"

	apperrors "aesthetx/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// paymentIntents is the part of the Stripe client the gateway uses.
type paymentIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type Stripe struct {
	intents paymentIntents
}

func NewStripe(secretKey string) *Stripe {
	sc := client.New(secretKey, nil)
	return &Stripe{intents: sc.PaymentIntents}
}

func (s *Stripe) Name() string  { return ProviderStripe }
func (s *Stripe) KeyID() string { return "" }

func (s *Stripe) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*Order, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(ToMinorUnits(amount)),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("receipt", receipt)

	pi, err := s.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPaymentProvider, err)
	}
	return &Order{
		GatewayOrderID: pi.ID,
		Amount:         pi.Amount,
		Currency:       strings.ToUpper(string(pi.Currency)),
		ClientSecret:   pi.ClientSecret,
	}, nil
}

// Verify retrieves the PaymentIntent and requires it to have succeeded for
// the expected amount.
func (s *Stripe) Verify(ctx context.Context, in VerifyInput) error {
	id := in.GatewayOrderID
	if id == "" {
		id = in.PaymentID
	}
	if id == "" {
		return apperrors.ErrPaymentVerification
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.intents.Get(id, params)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPaymentVerification, err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return apperrors.ErrPaymentVerification
	}
	if in.ExpectedAmount > 0 && pi.Amount != in.ExpectedAmount {
		return apperrors.ErrPaymentVerification
	}
	return nil
}
