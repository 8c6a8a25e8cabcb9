package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/events"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/repositories/cache"
	"aesthetx/internal/services/cart"
	"aesthetx/internal/services/payment"
	"aesthetx/internal/utils"
	"aesthetx/internal/validation"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const orderNumberAttempts = 3

// PaymentOrder is what the browser needs to open the provider's checkout.
type PaymentOrder struct {
	GatewayOrderID string          `json:"gatewayOrderId"`
	Amount         int64           `json:"amount"`
	Currency       string          `json:"currency"`
	KeyID          string          `json:"keyId,omitempty"`
	Provider       string          `json:"provider"`
	ClientSecret   string          `json:"clientSecret,omitempty"`
	Total          decimal.Decimal `json:"total"`
}

// PendingPayment is a gateway order opened by CreatePaymentOrder and not yet
// turned into an order.
type PendingPayment struct {
	GatewayOrderID string    `json:"gatewayOrderId"`
	UserID         uint      `json:"userId"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	CreatedAt      time.Time `json:"createdAt"`
}

type VerifyInput struct {
	GatewayOrderID  string                 `json:"gatewayOrderId" validate:"required"`
	PaymentID       string                 `json:"paymentId" validate:"required"`
	Signature       string                 `json:"signature"`
	ShippingDetails models.ShippingDetails `json:"shippingDetails"`
}

type Service interface {
	ValidateShipping(details models.ShippingDetails) error
	CreatePaymentOrder(ctx context.Context, userID uint) (*PaymentOrder, error)
	VerifyPayment(ctx context.Context, userID uint, input VerifyInput) (*models.Order, error)
}

type Config struct {
	Currency string
}

type service struct {
	cart      repositories.CartRepository
	products  repositories.ProductRepository
	orders    repositories.OrderRepository
	gateway   payment.Gateway
	publisher events.Publisher
	cache     repositories.Cache
	cfg       Config
	now       func() time.Time
}

func NewService(
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	gateway payment.Gateway,
	publisher events.Publisher,
	cache repositories.Cache,
	cfg Config,
) Service {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &service{
		cart:      cartRepo,
		products:  productRepo,
		orders:    orderRepo,
		gateway:   gateway,
		publisher: publisher,
		cache:     cache,
		cfg:       cfg,
		now:       time.Now,
	}
}

// quote is the cart priced at live product prices.
type quote struct {
	items []models.OrderItem
	lines []repositories.StockLine
	total decimal.Decimal
}

func (s *service) ValidateShipping(details models.ShippingDetails) error {
	if !validation.ShippingComplete(details) {
		return apperrors.ErrInvalidShipping
	}
	v := validation.New()
	v.Shipping(details)
	return apperrors.NewValidation(v.Errors)
}

func (s *service) CreatePaymentOrder(ctx context.Context, userID uint) (*PaymentOrder, error) {
	q, err := s.quote(ctx, userID)
	if err != nil {
		return nil, err
	}

	receipt := "rcpt_" + strconv.FormatUint(uint64(userID), 10) + "_" + strconv.FormatInt(s.now().Unix(), 10)
	order, err := s.gateway.CreateOrder(ctx, q.total, s.cfg.Currency, receipt)
	if err != nil {
		return nil, err
	}

	pending := PendingPayment{
		GatewayOrderID: order.GatewayOrderID,
		UserID:         userID,
		Amount:         payment.ToMinorUnits(q.total),
		Currency:       s.cfg.Currency,
		CreatedAt:      s.now(),
	}
	if err := s.cache.SetWithTTL(ctx, pendingKey(order.GatewayOrderID), pending, cache.TTLPendingPayment); err != nil {
		return nil, fmt.Errorf("store pending payment: %w", err)
	}

	return &PaymentOrder{
		GatewayOrderID: order.GatewayOrderID,
		Amount:         order.Amount,
		Currency:       order.Currency,
		KeyID:          s.gateway.KeyID(),
		Provider:       s.gateway.Name(),
		ClientSecret:   order.ClientSecret,
		Total:          q.total,
	}, nil
}

func (s *service) VerifyPayment(ctx context.Context, userID uint, input VerifyInput) (*models.Order, error) {
	if err := s.ValidateShipping(input.ShippingDetails); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.GatewayOrderID) == "" || strings.TrimSpace(input.PaymentID) == "" {
		return nil, apperrors.ErrPaymentVerification
	}

	if _, err := s.orders.GetByGatewayOrderID(ctx, input.GatewayOrderID); err == nil {
		return nil, apperrors.ErrPaymentAlreadyUsed
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("look up order for payment: %w", err)
	}

	var pending PendingPayment
	found, err := s.cache.Get(ctx, pendingKey(input.GatewayOrderID), &pending)
	if err != nil {
		return nil, fmt.Errorf("load pending payment: %w", err)
	}
	if !found || pending.UserID != userID {
		log.Printf("no pending payment %s for user %d", input.GatewayOrderID, userID)
		return nil, apperrors.ErrPaymentVerification
	}

	q, err := s.quote(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.gateway.Verify(ctx, payment.VerifyInput{
		GatewayOrderID: input.GatewayOrderID,
		PaymentID:      input.PaymentID,
		Signature:      input.Signature,
		ExpectedAmount: pending.Amount,
	})
	if err != nil {
		log.Printf("payment verification failed for user %d order %s: %v", userID, input.GatewayOrderID, err)
		return nil, err
	}
	if payment.ToMinorUnits(q.total) != pending.Amount {
		log.Printf("❌ cart total %s no longer matches paid amount %d for payment %s (user %d)",
			q.total.StringFixed(2), pending.Amount, input.PaymentID, userID)
		return nil, apperrors.ErrPaymentAmountMismatch
	}

	order := &models.Order{
		UserID:          userID,
		GatewayOrderID:  input.GatewayOrderID,
		Items:           datatypes.NewJSONSlice(q.items),
		ShippingDetails: datatypes.NewJSONType(trimShipping(input.ShippingDetails)),
		PaymentDetails: datatypes.NewJSONType(models.PaymentDetails{
			Provider:       s.gateway.Name(),
			GatewayOrderID: input.GatewayOrderID,
			PaymentID:      input.PaymentID,
			Signature:      input.Signature,
			Status:         models.PaymentStatusPaid,
			Amount:         q.total,
			Currency:       s.cfg.Currency,
		}),
		OrderTotal: q.total,
		Status:     models.OrderStatusPlaced,
	}

	if err := s.record(ctx, order, q.lines); err != nil {
		if errors.Is(err, apperrors.ErrPaymentAlreadyUsed) {
			return nil, err
		}
		log.Printf("❌ order not recorded for paid payment %s (user %d): %v", input.PaymentID, userID, err)
		notRecorded := apperrors.ErrOrderNotRecorded.WithMessage(fmt.Sprintf(
			"Payment received but the order could not be saved. Please contact support with payment ID %s", input.PaymentID))
		return nil, fmt.Errorf("%w (cause: %v)", notRecorded, err)
	}

	if err := s.cache.Delete(ctx, pendingKey(input.GatewayOrderID)); err != nil {
		log.Printf("Failed to clear pending payment %s: %v", input.GatewayOrderID, err)
	}

	log.Printf("✅ order %s placed by user %d (%s %s)", order.OrderNumber, userID, q.total.StringFixed(2), s.cfg.Currency)
	s.publishPlaced(ctx, order)
	return order, nil
}

// record writes the order, retrying when the generated number collides. A
// duplicate caused by another order for the same gateway order is reported
// as ErrPaymentAlreadyUsed.
func (s *service) record(ctx context.Context, order *models.Order, lines []repositories.StockLine) error {
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = utils.GenerateOrderNumber(s.now())
		err = s.orders.CreateWithStock(ctx, order, lines)
		if !errors.Is(err, repositories.ErrDuplicate) {
			return err
		}
		if _, lookupErr := s.orders.GetByGatewayOrderID(ctx, order.GatewayOrderID); lookupErr == nil {
			return apperrors.ErrPaymentAlreadyUsed
		}
	}
	return err
}

func pendingKey(gatewayOrderID string) string {
	return cache.GenerateKey(cache.KeyPendingPayment, gatewayOrderID)
}

func (s *service) quote(ctx context.Context, userID uint) (*quote, error) {
	lines, err := s.cart.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, apperrors.ErrCartEmpty
	}

	q := &quote{total: decimal.Zero}
	for _, line := range lines {
		p, err := s.products.GetByID(ctx, line.ProductID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrProductNotFound.WithMessage(fmt.Sprintf("%s is no longer available", line.Name))
		} else if err != nil {
			return nil, err
		}
		if err := cart.CheckStock(p, line.Size, line.Color, line.Quantity); err != nil {
			if de, ok := apperrors.AsDomain(err); ok {
				return nil, de.WithMessage(p.Name + ": " + de.Message)
			}
			return nil, err
		}

		item := models.OrderItem{
			ProductID: p.ItemID,
			Name:      p.Name,
			Image:     p.MainImage,
			Price:     p.Price,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
		}
		q.items = append(q.items, item)
		q.lines = append(q.lines, repositories.StockLine{
			ProductID: p.ID,
			Key:       cart.StockKey(p, line.Size, line.Color),
			Quantity:  line.Quantity,
		})
		q.total = q.total.Add(item.LineTotal())
	}
	return q, nil
}

func (s *service) publishPlaced(ctx context.Context, order *models.Order) {
	shipping := order.ShippingDetails.Data()
	payload := events.OrderPlacedPayload{
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Email:       shipping.Email,
		FullName:    shipping.FullName,
		Total:       order.OrderTotal,
		Currency:    s.cfg.Currency,
		PlacedAt:    order.CreatedAt,
	}
	for _, it := range order.Items {
		payload.Items = append(payload.Items, events.OrderLine{
			Name:     it.Name,
			Size:     it.Size,
			Color:    it.Color,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	if err := s.publisher.Publish(ctx, events.TopicOrderPlaced, events.EventOrderPlaced, order.OrderNumber, payload); err != nil {
		log.Printf("Failed to publish order placed event for %s: %v", order.OrderNumber, err)
	}
}

func trimShipping(d models.ShippingDetails) models.ShippingDetails {
	return models.ShippingDetails{
		FullName: strings.TrimSpace(d.FullName),
		Email:    strings.ToLower(strings.TrimSpace(d.Email)),
		Phone:    strings.TrimSpace(d.Phone),
		Address:  strings.TrimSpace(d.Address),
		City:     strings.TrimSpace(d.City),
		State:    strings.TrimSpace(d.State),
		Pincode:  strings.TrimSpace(d.Pincode),
	}
}
