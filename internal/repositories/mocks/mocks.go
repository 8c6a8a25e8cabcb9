// Package mocks holds testify mocks of the repository interfaces for
// service tests.
package mocks

import (
	"context"
	"time"

	"aesthetx/internal/models"
	"aesthetx/internal/repositories"

	"github.com/stretchr/testify/mock"
)

type UserRepository struct{ mock.Mock }

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepository) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *UserRepository) List(ctx context.Context, filter repositories.UserFilter, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	users, _ := args.Get(0).([]models.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *UserRepository) Totals(ctx context.Context) (models.UserTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.UserTotals), args.Error(1)
}

type SessionRepository struct{ mock.Mock }

func (m *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Session)
	return s, args.Error(1)
}

func (m *SessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionRepository) DeleteByUser(ctx context.Context, userID uint, exceptID string) ([]string, error) {
	args := m.Called(ctx, userID, exceptID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SessionRepository) DeleteForInactiveUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type ProductRepository struct{ mock.Mock }

func (m *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *ProductRepository) GetByItemID(ctx context.Context, itemID string) (*models.Product, error) {
	args := m.Called(ctx, itemID)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *ProductRepository) Delete(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) List(ctx context.Context, filter repositories.ProductFilter, order string, offset, limit int) ([]models.Product, int64, error) {
	args := m.Called(ctx, filter, order, offset, limit)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepository) FindMatching(ctx context.Context, criteria repositories.SearchCriteria) ([]models.Product, error) {
	args := m.Called(ctx, criteria)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *ProductRepository) Totals(ctx context.Context) (models.ProductTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.ProductTotals), args.Error(1)
}

type OrderRepository struct{ mock.Mock }

func (m *OrderRepository) CreateWithStock(ctx context.Context, order *models.Order, lines []repositories.StockLine) error {
	args := m.Called(ctx, order, lines)
	return args.Error(0)
}

func (m *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	args := m.Called(ctx, orderNumber)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *OrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *OrderRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Order, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepository) List(ctx context.Context, filter repositories.OrderFilter, offset, limit int) ([]models.Order, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, orderNumber, status string) (*models.Order, string, error) {
	args := m.Called(ctx, orderNumber, status)
	o, _ := args.Get(0).(*models.Order)
	return o, args.String(1), args.Error(2)
}

func (m *OrderRepository) Totals(ctx context.Context) (models.OrderTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.OrderTotals), args.Error(1)
}

type ReviewRepository struct{ mock.Mock }

func (m *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *ReviewRepository) Exists(ctx context.Context, productID, userID uint) (bool, error) {
	args := m.Called(ctx, productID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Review)
	return r, args.Error(1)
}

func (m *ReviewRepository) ListByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	args := m.Called(ctx, productID)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

func (m *ReviewRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ViewRepository struct{ mock.Mock }

func (m *ViewRepository) Create(ctx context.Context, view *models.View) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

func (m *ViewRepository) ListActive(ctx context.Context, category string) ([]models.View, error) {
	args := m.Called(ctx, category)
	views, _ := args.Get(0).([]models.View)
	return views, args.Error(1)
}

func (m *ViewRepository) StatsFor(ctx context.Context, productRefs []string) (models.ProductViewStats, error) {
	args := m.Called(ctx, productRefs)
	return args.Get(0).(models.ProductViewStats), args.Error(1)
}

func (m *ViewRepository) History(ctx context.Context, userID uint, limit int) ([]repositories.ViewedProduct, error) {
	args := m.Called(ctx, userID, limit)
	rows, _ := args.Get(0).([]repositories.ViewedProduct)
	return rows, args.Error(1)
}

func (m *ViewRepository) SoftDeleteByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ViewRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type CartRepository struct{ mock.Mock }

func (m *CartRepository) List(ctx context.Context, userID uint) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]models.CartItem)
	return items, args.Error(1)
}

func (m *CartRepository) Get(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	args := m.Called(ctx, userID, itemID)
	item, _ := args.Get(0).(*models.CartItem)
	return item, args.Error(1)
}

func (m *CartRepository) FindLine(ctx context.Context, userID, productID uint, size, color string) (*models.CartItem, error) {
	args := m.Called(ctx, userID, productID, size, color)
	item, _ := args.Get(0).(*models.CartItem)
	return item, args.Error(1)
}

func (m *CartRepository) Create(ctx context.Context, item *models.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CartRepository) UpdateQuantity(ctx context.Context, itemID uint, quantity int) error {
	args := m.Called(ctx, itemID, quantity)
	return args.Error(0)
}

func (m *CartRepository) Delete(ctx context.Context, userID, itemID uint) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *CartRepository) Clear(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type WishlistRepository struct{ mock.Mock }

func (m *WishlistRepository) List(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]models.WishlistItem)
	return items, args.Error(1)
}

func (m *WishlistRepository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *WishlistRepository) Create(ctx context.Context, item *models.WishlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *WishlistRepository) Delete(ctx context.Context, userID, productID uint) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

// Publisher records published events.
type Publisher struct{ mock.Mock }

func (m *Publisher) Publish(ctx context.Context, topic, eventType, key string, payload any) error {
	args := m.Called(ctx, topic, eventType, key, payload)
	return args.Error(0)
}

var (
	_ repositories.UserRepository     = (*UserRepository)(nil)
	_ repositories.SessionRepository  = (*SessionRepository)(nil)
	_ repositories.ProductRepository  = (*ProductRepository)(nil)
	_ repositories.OrderRepository    = (*OrderRepository)(nil)
	_ repositories.ReviewRepository   = (*ReviewRepository)(nil)
	_ repositories.ViewRepository     = (*ViewRepository)(nil)
	_ repositories.CartRepository     = (*CartRepository)(nil)
	_ repositories.WishlistRepository = (*WishlistRepository)(nil)
)
