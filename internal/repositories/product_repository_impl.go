package repositories

import (
	"context"
	"log"
	"strings"

	"aesthetx/internal/models"
	"aesthetx/internal/repositories/cache"

	"gorm.io/gorm"
)

type productRepository struct {
	db    *gorm.DB
	cache Cache
}

func NewProductRepository(db *gorm.DB, cache Cache) ProductRepository {
	return &productRepository{db: db, cache: cache}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return translateError(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepository) Save(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return translateError(err)
	}
	r.evict(ctx, product.ItemID)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *productRepository) GetByItemID(ctx context.Context, itemID string) (*models.Product, error) {
	key := cache.GenerateKey(cache.KeyProductItem, itemID)
	var cached models.Product
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	} else if err != nil {
		log.Printf("product cache read failed for %s: %v", itemID, err)
	}

	var p models.Product
	if err := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&p).Error; err != nil {
		return nil, translateError(err)
	}

	if err := r.cache.SetWithTTL(ctx, key, &p, cache.TTLProduct); err != nil {
		log.Printf("Failed to cache product %s: %v", itemID, err)
	}
	return &p, nil
}

func (r *productRepository) Delete(ctx context.Context, product *models.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.WishlistItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, product.ID).Error
	})
	if err != nil {
		return translateError(err)
	}
	r.evict(ctx, product.ItemID)
	return nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter, order string, offset, limit int) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.VisibleOnly {
		q = q.Where("is_hidden = ?", false)
	}
	if filter.Hidden != nil {
		q = q.Where("is_hidden = ?", *filter.Hidden)
	}
	if filter.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(filter.Category))
	}
	if filter.OutOfStock {
		q = q.Where("in_stock = ?", false)
	}
	if filter.ExcludeID != 0 {
		q = q.Where("id <> ?", filter.ExcludeID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := containsPattern(s)
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(item_id) LIKE ? ESCAPE '\'`, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if order == "" {
		order = OrderNewest
	}
	var products []models.Product
	q = q.Order(order).Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&products).Error
	return products, total, err
}

func (r *productRepository) FindMatching(ctx context.Context, criteria SearchCriteria) ([]models.Product, error) {
	like := containsPattern(strings.TrimSpace(criteria.Query))
	q := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("is_hidden = ?", false).
		Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' `+
				`OR LOWER(category) LIKE ? ESCAPE '\' OR LOWER(color) LIKE ? ESCAPE '\' `+
				`OR LOWER(array_to_string(subcategories, ' ')) LIKE ? ESCAPE '\' `+
				`OR LOWER(array_to_string(type, ' ')) LIKE ? ESCAPE '\'`,
			like, like, like, like, like, like,
		)
	if criteria.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(criteria.Category))
	}
	if criteria.MinPrice != nil {
		q = q.Where("price >= ?", *criteria.MinPrice)
	}
	if criteria.MaxPrice != nil {
		q = q.Where("price <= ?", *criteria.MaxPrice)
	}
	if criteria.InStockOnly {
		q = q.Where("in_stock = ?", true)
	}

	var products []models.Product
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepository) Totals(ctx context.Context) (models.ProductTotals, error) {
	var t models.ProductTotals
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("COUNT(*) AS total, " +
			"COUNT(*) FILTER (WHERE is_hidden) AS hidden, " +
			"COUNT(*) FILTER (WHERE NOT in_stock) AS out_of_stock").
		Scan(&t).Error
	return t, err
}

func (r *productRepository) evict(ctx context.Context, itemID string) {
	if err := r.cache.Delete(ctx, cache.GenerateKey(cache.KeyProductItem, itemID)); err != nil {
		log.Printf("Warning: Failed to invalidate product cache: %v", err)
	}
}
