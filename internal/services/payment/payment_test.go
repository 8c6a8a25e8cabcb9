package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aesthetx/internal/config"
	apperrors "aesthetx/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v72"
)

func TestToMinorUnits(t *testing.T) {
	tests := map[string]int64{
		"1499.50": 149950,
		"0.005":   1,
		"10":      1000,
		"99.994":  9999,
	}
	for in, want := range tests {
		assert.Equal(t, want, ToMinorUnits(decimal.RequireFromString(in)), in)
	}
	assert.Equal(t, "1499.5", FromMinorUnits(149950).String())
}

func razorpayPayments(t *testing.T, payments map[string]razorpayPayment) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "shh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		pay, found := payments[strings.TrimPrefix(r.URL.Path, "/v1/payments/")]
		if r.Method != http.MethodGet || !found {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pay)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRazorpayVerify(t *testing.T) {
	srv := razorpayPayments(t, map[string]razorpayPayment{
		"pay_1":     {ID: "pay_1", OrderID: "order_1", Amount: 89900, Currency: "INR", Status: "captured"},
		"pay_2":     {ID: "pay_2", OrderID: "order_2", Amount: 100, Currency: "INR", Status: "captured"},
		"pay_fail":  {ID: "pay_fail", OrderID: "order_3", Amount: 89900, Currency: "INR", Status: "failed"},
		"pay_other": {ID: "pay_other", OrderID: "order_9", Amount: 89900, Currency: "INR", Status: "captured"},
	})
	rp := NewRazorpay(srv.URL, "rzp_test_key", "shh")
	ctx := context.Background()
	input := func(orderID, paymentID string, amount int64) VerifyInput {
		return VerifyInput{GatewayOrderID: orderID, PaymentID: paymentID, Signature: Sign("shh", orderID, paymentID), ExpectedAmount: amount}
	}

	assert.NoError(t, rp.Verify(ctx, input("order_1", "pay_1", 89900)))

	forged := input("order_1", "pay_1", 89900)
	forged.Signature = Sign("shh", "order_1", "pay_2")
	assert.ErrorIs(t, rp.Verify(ctx, forged), apperrors.ErrPaymentVerification)
	assert.ErrorIs(t, rp.Verify(ctx, VerifyInput{GatewayOrderID: "order_1", PaymentID: "pay_1"}), apperrors.ErrPaymentVerification)

	// a one rupee payment does not cover an 899 rupee cart
	assert.ErrorIs(t, rp.Verify(ctx, input("order_2", "pay_2", 89900)), apperrors.ErrPaymentVerification)
	assert.ErrorIs(t, rp.Verify(ctx, input("order_3", "pay_fail", 89900)), apperrors.ErrPaymentVerification)
	// a genuine payment for a different order
	assert.ErrorIs(t, rp.Verify(ctx, input("order_1", "pay_other", 89900)), apperrors.ErrPaymentVerification)
	assert.ErrorIs(t, rp.Verify(ctx, input("order_1", "pay_missing", 89900)), apperrors.ErrPaymentProvider)
}

func TestRazorpayCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "shh" || r.URL.Path != "/v1/orders" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
			return
		}
		var req razorpayOrderRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(razorpayOrder{ID: "order_abc", Amount: req.Amount, Currency: req.Currency, Status: "created"})
	}))
	defer srv.Close()

	rp := NewRazorpay(srv.URL+"/", "rzp_test_key", "shh")
	order, err := rp.CreateOrder(context.Background(), decimal.RequireFromString("1499.50"), "inr", "rcpt_1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.GatewayOrderID)
	assert.Equal(t, int64(149950), order.Amount)
	assert.Equal(t, "INR", order.Currency)

	bad := NewRazorpay(srv.URL, "wrong", "creds")
	_, err = bad.CreateOrder(context.Background(), decimal.NewFromInt(1), "INR", "rcpt_2")
	assert.ErrorIs(t, err, apperrors.ErrPaymentProvider)
}

type fakeIntents struct {
	created *stripe.PaymentIntentParams
	intent  *stripe.PaymentIntent
	err     error
}

func (f *fakeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.created = params
	return f.intent, f.err
}

func (f *fakeIntents) Get(id string, _ *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.intent == nil || f.intent.ID != id {
		return nil, errors.New("no such payment_intent")
	}
	return f.intent, nil
}

func TestStripeVerify(t *testing.T) {
	intents := &fakeIntents{intent: &stripe.PaymentIntent{ID: "pi_1", Amount: 5000, Status: stripe.PaymentIntentStatusSucceeded}}
	gw := &Stripe{intents: intents}
	ctx := context.Background()

	assert.NoError(t, gw.Verify(ctx, VerifyInput{GatewayOrderID: "pi_1", ExpectedAmount: 5000}))
	assert.ErrorIs(t, gw.Verify(ctx, VerifyInput{GatewayOrderID: "pi_1", ExpectedAmount: 4000}), apperrors.ErrPaymentVerification)
	assert.ErrorIs(t, gw.Verify(ctx, VerifyInput{GatewayOrderID: "pi_2"}), apperrors.ErrPaymentVerification)

	intents.intent.Status = stripe.PaymentIntentStatusRequiresPaymentMethod
	assert.ErrorIs(t, gw.Verify(ctx, VerifyInput{GatewayOrderID: "pi_1"}), apperrors.ErrPaymentVerification)
}

func TestStripeCreateOrder(t *testing.T) {
	intents := &fakeIntents{intent: &stripe.PaymentIntent{ID: "pi_9", Amount: 149950, ClientSecret: "pi_9_secret"}}
	gw := &Stripe{intents: intents}

	order, err := gw.CreateOrder(context.Background(), decimal.RequireFromString("1499.50"), "INR", "rcpt")
	require.NoError(t, err)
	assert.Equal(t, "pi_9", order.GatewayOrderID)
	assert.Equal(t, "pi_9_secret", order.ClientSecret)
	assert.Equal(t, int64(149950), *intents.created.Amount)
	assert.Equal(t, "inr", *intents.created.Currency)
}

func TestNewGateway(t *testing.T) {
	_, err := NewGateway(config.PaymentConfig{Provider: "razorpay"})
	assert.Error(t, err)

	gw, err := NewGateway(config.PaymentConfig{Provider: "razorpay", RazorpayKeyID: "k", RazorpayKeySecret: "s", RazorpayBaseURL: "https://api.razorpay.com"})
	require.NoError(t, err)
	assert.Equal(t, ProviderRazorpay, gw.Name())
	assert.Equal(t, "k", gw.KeyID())

	_, err = NewGateway(config.PaymentConfig{Provider: "paypal"})
	assert.Error(t, err)
}
