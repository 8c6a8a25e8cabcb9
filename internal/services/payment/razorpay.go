package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	apperrors "aesthetx/internal/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Razorpay struct {
	baseURL string
	keyID   string
	secret  string
}

func NewRazorpay(baseURL, keyID, secret string) *Razorpay {
	return &Razorpay{
		baseURL: strings.TrimRight(baseURL, "/"),
		keyID:   keyID,
		secret:  secret,
	}
}

func (r *Razorpay) Name() string  { return ProviderRazorpay }
func (r *Razorpay) KeyID() string { return r.keyID }

type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// razorpayPayment is the part of a payment entity Verify checks.
type razorpayPayment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

func (r *Razorpay) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agent := fiber.Post(r.baseURL + "/v1/orders")
	agent.JSON(razorpayOrderRequest{
		Amount:   ToMinorUnits(amount),
		Currency: strings.ToUpper(currency),
		Receipt:  receipt,
	})
	var order razorpayOrder
	if err := r.send(agent, &order); err != nil {
		return nil, err
	}
	return &Order{
		GatewayOrderID: order.ID,
		Amount:         order.Amount,
		Currency:       order.Currency,
	}, nil
}

// Verify checks the checkout signature, an HMAC-SHA256 of
// "<order id>|<payment id>" keyed with the account secret, then fetches the
// payment and requires it to belong to the order, to be authorized or
// captured and to carry the expected amount.
func (r *Razorpay) Verify(ctx context.Context, in VerifyInput) error {
	if in.GatewayOrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return apperrors.ErrPaymentVerification
	}
	expected := Sign(r.secret, in.GatewayOrderID, in.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(in.Signature))) {
		return apperrors.ErrPaymentVerification
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var pay razorpayPayment
	if err := r.send(fiber.Get(r.baseURL+"/v1/payments/"+url.PathEscape(in.PaymentID)), &pay); err != nil {
		return err
	}
	if pay.OrderID != in.GatewayOrderID {
		return apperrors.ErrPaymentVerification
	}
	if pay.Status != "authorized" && pay.Status != "captured" {
		return apperrors.ErrPaymentVerification
	}
	if in.ExpectedAmount > 0 && pay.Amount != in.ExpectedAmount {
		return apperrors.ErrPaymentVerification
	}
	return nil
}

// send runs an authenticated API call and decodes the JSON reply into out.
func (r *Razorpay) send(agent *fiber.Agent, out interface{}) error {
	agent.BasicAuth(r.keyID, r.secret)
	agent.Timeout(requestTimeout)
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPaymentProvider, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", apperrors.ErrPaymentProvider, errs[0])
	}
	if code < 200 || code >= 300 {
		var rpErr razorpayError
		_ = json.Unmarshal(body, &rpErr)
		return fmt.Errorf("%w: razorpay returned %d %s", apperrors.ErrPaymentProvider, code, rpErr.Error.Description)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", apperrors.ErrPaymentProvider, err)
	}
	return nil
}

// Sign computes the hex signature Razorpay attaches to a completed checkout.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
