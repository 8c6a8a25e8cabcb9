package repositories

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"aesthetx/internal/models"
	"aesthetx/internal/repositories/cache"
	"aesthetx/internal/services/stock"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepository struct {
	db    *gorm.DB
	cache Cache
}

func NewOrderRepository(db *gorm.DB, cache Cache) OrderRepository {
	return &orderRepository{db: db, cache: cache}
}

func (r *orderRepository) CreateWithStock(ctx context.Context, order *models.Order, lines []StockLine) error {
	var touched []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := lockProducts(tx, productIDs(lines))
		if err != nil {
			return err
		}

		for _, line := range lines {
			p, ok := products[line.ProductID]
			if !ok {
				return ErrNotFound
			}
			available, units := stockForKey(p, line.Key)
			if !available || p.IsHidden || units < line.Quantity {
				return &InsufficientStockError{ProductID: p.ID, Name: p.Name, Key: line.Key, Available: units}
			}
			stock.Adjust(p, line.Key, -line.Quantity)
			p.Buys += line.Quantity
		}

		for _, p := range products {
			if err := tx.Save(p).Error; err != nil {
				return err
			}
			touched = append(touched, p.ItemID)
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return translateError(err)
	}
	r.evictProducts(ctx, touched)
	return nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&o).Error; err != nil {
		return nil, translateError(err)
	}
	return &o, nil
}

func (r *orderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).Where("gateway_order_id = ?", gatewayOrderID).First(&o).Error; err != nil {
		return nil, translateError(err)
	}
	return &o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	return r.page(q, offset, limit)
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter, offset, limit int) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := containsPattern(s)
		q = q.Where(`LOWER(order_number) LIKE ? ESCAPE '\' OR LOWER(shipping_details->>'fullName') LIKE ? ESCAPE '\' `+
			`OR LOWER(shipping_details->>'email') LIKE ? ESCAPE '\'`,
			like, like, like)
	}
	return r.page(q, offset, limit)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderNumber, status string) (*models.Order, string, error) {
	var order models.Order
	var previous string
	var touched []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_number = ?", orderNumber).
			First(&order).Error; err != nil {
			return err
		}
		if !models.CanTransition(order.Status, status) {
			return ErrInvalidTransition
		}
		previous = order.Status

		if status == models.OrderStatusCancelled {
			items, err := r.restock(tx, order.Items)
			if err != nil {
				return err
			}
			touched = items
		}

		order.Status = status
		return tx.Model(&order).Update("status", status).Error
	})
	if err != nil {
		return nil, "", translateError(err)
	}
	r.evictProducts(ctx, touched)
	return &order, previous, nil
}

func (r *orderRepository) Totals(ctx context.Context) (models.OrderTotals, error) {
	t := models.OrderTotals{ByStatus: map[string]int64{}, Revenue: decimal.Zero}

	var rows []struct {
		Status  string
		Count   int64
		Revenue decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(order_total), 0) AS revenue").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return t, err
	}

	for _, row := range rows {
		t.Total += row.Count
		t.ByStatus[row.Status] = row.Count
		if row.Status != models.OrderStatusCancelled {
			t.Revenue = t.Revenue.Add(row.Revenue)
		}
	}
	return t, nil
}

func (r *orderRepository) page(q *gorm.DB, offset, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) restock(tx *gorm.DB, items []models.OrderItem) ([]string, error) {
	var touched []string
	for _, item := range items {
		var p models.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("item_id = ?", item.ProductID).
			First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("restock skipped, product %s no longer exists", item.ProductID)
			continue
		}
		if err != nil {
			return nil, err
		}

		key := item.Size
		if p.UsesColorStock() {
			key = item.Color
		}
		stock.Adjust(&p, key, item.Quantity)
		p.Buys -= item.Quantity
		if p.Buys < 0 {
			p.Buys = 0
		}
		if err := tx.Save(&p).Error; err != nil {
			return nil, err
		}
		touched = append(touched, p.ItemID)
	}
	return touched, nil
}

func (r *orderRepository) evictProducts(ctx context.Context, itemIDs []string) {
	if len(itemIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		keys = append(keys, cache.GenerateKey(cache.KeyProductItem, id))
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		log.Printf("Warning: Failed to invalidate product cache: %v", err)
	}
}

// lockProducts selects the rows FOR UPDATE in id order so concurrent
// checkouts acquire locks in the same sequence.
func lockProducts(tx *gorm.DB, ids []uint) (map[uint]*models.Product, error) {
	out := make(map[uint]*models.Product, len(ids))
	for _, id := range ids {
		var p models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return nil, err
		}
		out[id] = &p
	}
	return out, nil
}

func productIDs(lines []StockLine) []uint {
	seen := make(map[uint]bool, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func stockForKey(p *models.Product, key string) (bool, int) {
	if p.UsesColorStock() {
		return p.StockFor("", key)
	}
	return p.StockFor(key, "")
}
