package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/events"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/repositories/cache"
	"aesthetx/internal/repositories/mocks"
	"aesthetx/internal/services/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeGateway struct {
	verifyErr error
	verified  payment.VerifyInput
	created   decimal.Decimal
}

func (g *fakeGateway) Name() string  { return payment.ProviderRazorpay }
func (g *fakeGateway) KeyID() string { return "rzp_test" }

func (g *fakeGateway) CreateOrder(_ context.Context, amount decimal.Decimal, currency, _ string) (*payment.Order, error) {
	g.created = amount
	return &payment.Order{GatewayOrderID: "order_1", Amount: payment.ToMinorUnits(amount), Currency: currency}, nil
}

func (g *fakeGateway) Verify(_ context.Context, in payment.VerifyInput) error {
	g.verified = in
	return g.verifyErr
}

type fixture struct {
	cart      *mocks.CartRepository
	products  *mocks.ProductRepository
	orders    *mocks.OrderRepository
	publisher *mocks.Publisher
	gateway   *fakeGateway
	cache     *cache.MemoryCache
	svc       Service
}

func newFixture() *fixture {
	f := &fixture{
		cart:      new(mocks.CartRepository),
		products:  new(mocks.ProductRepository),
		orders:    new(mocks.OrderRepository),
		publisher: new(mocks.Publisher),
		gateway:   &fakeGateway{},
		cache:     cache.NewMemoryCache(time.Hour),
	}
	f.svc = NewService(f.cart, f.products, f.orders, f.gateway, f.publisher, f.cache, Config{Currency: "INR"})
	return f
}

func tee() *models.Product {
	return &models.Product{
		ID:             3,
		ItemID:         "AX-tee00003",
		Name:           "Box Tee",
		Price:          decimal.RequireFromString("899"),
		GarmentType:    models.GarmentUpper,
		AvailableSizes: []string{"M"},
		SizeStock:      datatypes.NewJSONType(models.StockMap{"M": 5}),
		InStock:        true,
		CurrentStock:   5,
	}
}

func shipping() models.ShippingDetails {
	return models.ShippingDetails{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Address:  "12 Residency Road",
		City:     "Bengaluru",
		Pincode:  "560025",
	}
}

func (f *fixture) withCart(ctx context.Context) {
	f.cart.On("List", ctx, uint(1)).Return([]models.CartItem{
		{ID: 1, ProductID: 3, Size: "M", Quantity: 2, Price: decimal.RequireFromString("799"), Name: "Box Tee"},
	}, nil)
	f.products.On("GetByID", ctx, uint(3)).Return(tee(), nil)
}

// started opens the gateway order for the current cart, as the browser does
// before showing the payment form.
func (f *fixture) started(t *testing.T, ctx context.Context) {
	t.Helper()
	_, err := f.svc.CreatePaymentOrder(ctx, 1)
	require.NoError(t, err)
}

func (f *fixture) noOrderForPayment(ctx context.Context) {
	f.orders.On("GetByGatewayOrderID", ctx, "order_1").Return(nil, repositories.ErrNotFound)
}

func paid(paymentID string) VerifyInput {
	return VerifyInput{GatewayOrderID: "order_1", PaymentID: paymentID, Signature: "sig", ShippingDetails: shipping()}
}

func TestValidateShipping(t *testing.T) {
	svc := newFixture().svc

	assert.NoError(t, svc.ValidateShipping(shipping()))

	missing := shipping()
	missing.City = "   "
	assert.ErrorIs(t, svc.ValidateShipping(missing), apperrors.ErrInvalidShipping)

	badPin := shipping()
	badPin.Pincode = "5600"
	ve, ok := apperrors.AsValidation(svc.ValidateShipping(badPin))
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "pincode")
}

func TestCreatePaymentOrderUsesLivePrices(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.withCart(ctx)

	po, err := f.svc.CreatePaymentOrder(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "1798", f.gateway.created.String())
	assert.Equal(t, int64(179800), po.Amount)
	assert.Equal(t, "rzp_test", po.KeyID)
	assert.Equal(t, payment.ProviderRazorpay, po.Provider)
}

func TestCreatePaymentOrderEmptyCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.cart.On("List", ctx, uint(1)).Return([]models.CartItem{}, nil)

	_, err := f.svc.CreatePaymentOrder(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrCartEmpty)
}

func TestCreatePaymentOrderRemembersAmount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.withCart(ctx)
	f.started(t, ctx)

	var pending PendingPayment
	found, err := f.cache.Get(ctx, "payment:pending:order_1", &pending)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint(1), pending.UserID)
	assert.Equal(t, int64(179800), pending.Amount)
}

func TestVerifyPaymentPlacesOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.withCart(ctx)
	f.started(t, ctx)
	f.noOrderForPayment(ctx)

	f.orders.On("CreateWithStock", ctx, mock.AnythingOfType("*models.Order"),
		[]repositories.StockLine{{ProductID: 3, Key: "M", Quantity: 2}}).Return(nil)
	f.publisher.On("Publish", ctx, events.TopicOrderPlaced, events.EventOrderPlaced, mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.VerifyPayment(ctx, 1, paid("pay_1"))
	require.NoError(t, err)
	assert.Regexp(t, `^AX-\d{8}-[0-9A-F]{6}$`, order.OrderNumber)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, "order_1", order.GatewayOrderID)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentDetails.Data().Status)
	assert.Equal(t, "1798", order.OrderTotal.String())
	assert.Equal(t, int64(179800), f.gateway.verified.ExpectedAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "AX-tee00003", order.Items[0].ProductID)
	f.publisher.AssertExpectations(t)

	found, err := f.cache.Get(ctx, "payment:pending:order_1", &PendingPayment{})
	require.NoError(t, err)
	assert.False(t, found, "pending payment is consumed by the order")
}

func TestVerifyPaymentRejectsReplay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.withCart(ctx)
	f.started(t, ctx)

	f.orders.On("GetByGatewayOrderID", ctx, "order_1").Return(nil, repositories.ErrNotFound).Once()
	f.orders.On("CreateWithStock", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	f.publisher.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.VerifyPayment(ctx, 1, paid("pay_1"))
	require.NoError(t, err)

	f.orders.On("GetByGatewayOrderID", ctx, "order_1").Return(&models.Order{ID: 1, GatewayOrderID: "order_1"}, nil)
	_, err = f.svc.VerifyPayment(ctx, 1, paid("pay_1"))
	assert.ErrorIs(t, err, apperrors.ErrPaymentAlreadyUsed)
	f.orders.AssertNumberOfCalls(t, "CreateWithStock", 1)
}

func TestVerifyPaymentWithoutPendingPayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.withCart(ctx)
	f.noOrderForPayment(ctx)

	_, err := f.svc.VerifyPayment(ctx, 1, paid("pay_1"))
	assert.ErrorIs(t, err, apperrors.ErrPaymentVerification)
	assert.Empty(t, f.gateway.verified.PaymentID, "gateway is not consulted")
	f.orders.AssertNotCalled(t, "CreateWithStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPaymentRejectsAnotherUsersPayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.withCart(ctx)
	f.started(t, ctx)
	f.noOrderForPayment(ctx)

	_, err := f.svc.VerifyPayment(ctx, 2, paid("pay_1"))
	assert.ErrorIs(t, err, apperrors.ErrPaymentVerification)
	f.orders.AssertNotCalled(t, "CreateWithStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPaymentRejectsCartGrownAfterPayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.cart.On("List", ctx, uint(1)).Return([]models.CartItem{
		{ID: 1, ProductID: 3, Size: "M", Quantity: 1, Name: "Box Tee"},
	}, nil).Once()
	f.cart.On("List", ctx, uint(1)).Return([]models.CartItem{
		{ID: 1, ProductID: 3, Size: "M", Quantity: 4, Name: "Box Tee"},
	}, nil)
	f.products.On("GetByID", ctx, uint(3)).Return(tee(), nil)
	f.started(t, ctx)
	f.noOrderForPayment(ctx)

	_, err := f.svc.VerifyPayment(ctx, 1, paid("pay_1"))
	assert.ErrorIs(t, err, apperrors.ErrPaymentAmountMismatch)
	assert.Equal(t, int64(89900), f.gateway.verified.ExpectedAmount, "gateway checks the amount that was opened")
	f.orders.AssertNotCalled(t, "CreateWithStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPaymentConcurrentReplayHitsUniqueIndex(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.withCart(ctx)
	f.started(t, ctx)

	f.orders.On("GetByGatewayOrderID", ctx, "order_1").Return(nil, repositories.ErrNotFound).Once()
	f.orders.On("CreateWithStock", ctx, mock.Anything, mock.Anything).Return(repositories.ErrDuplicate).Once()
	f.orders.On("GetByGatewayOrderID", ctx, "order_1").Return(&models.Order{ID: 1, GatewayOrderID: "order_1"}, nil)

	_, err := f.svc.VerifyPayment(ctx, 1, paid("pay_1"))
	assert.ErrorIs(t, err, apperrors.ErrPaymentAlreadyUsed)
	assert.NotErrorIs(t, err, apperrors.ErrOrderNotRecorded)
	f.orders.AssertNumberOfCalls(t, "CreateWithStock", 1)
}

func TestVerifyPaymentRejectsBadSignature(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.withCart(ctx)
	f.started(t, ctx)
	f.noOrderForPayment(ctx)
	f.gateway.verifyErr = apperrors.ErrPaymentVerification

	in := paid("pay_1")
	in.Signature = "forged"
	_, err := f.svc.VerifyPayment(ctx, 1, in)
	assert.ErrorIs(t, err, apperrors.ErrPaymentVerification)
	f.orders.AssertNotCalled(t, "CreateWithStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPaymentReportsUnrecordedOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.withCart(ctx)
	f.started(t, ctx)
	f.noOrderForPayment(ctx)
	f.orders.On("CreateWithStock", ctx, mock.Anything, mock.Anything).
		Return(&repositories.InsufficientStockError{ProductID: 3, Name: "Box Tee", Key: "M", Available: 1})

	_, err := f.svc.VerifyPayment(ctx, 1, paid("pay_77"))
	require.ErrorIs(t, err, apperrors.ErrOrderNotRecorded)
	de, ok := apperrors.AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "Payment received but the order could not be saved. Please contact support with payment ID pay_77", de.Message)
}

func TestVerifyPaymentRetriesOrderNumberCollision(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.withCart(ctx)
	f.started(t, ctx)
	f.noOrderForPayment(ctx)
	f.orders.On("CreateWithStock", ctx, mock.Anything, mock.Anything).Return(repositories.ErrDuplicate).Once()
	f.orders.On("CreateWithStock", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	f.publisher.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := f.svc.VerifyPayment(ctx, 1, paid("pay_1"))
	require.NoError(t, err)
	f.orders.AssertNumberOfCalls(t, "CreateWithStock", 2)
}
