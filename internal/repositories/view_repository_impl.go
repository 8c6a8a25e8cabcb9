package repositories

import (
	"context"
	"strings"

	"aesthetx/internal/models"

	"gorm.io/gorm"
)

type viewRepository struct {
	db *gorm.DB
}

func NewViewRepository(db *gorm.DB) ViewRepository {
	return &viewRepository{db: db}
}

func (r *viewRepository) Create(ctx context.Context, view *models.View) error {
	return r.db.WithContext(ctx).Create(view).Error
}

func (r *viewRepository) ListActive(ctx context.Context, category string) ([]models.View, error) {
	q := r.db.WithContext(ctx).Where("is_deleted = ?", false)
	if category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	var views []models.View
	err := q.Order("viewed_at ASC, id ASC").Find(&views).Error
	return views, err
}

func (r *viewRepository) StatsFor(ctx context.Context, productRefs []string) (models.ProductViewStats, error) {
	var stats models.ProductViewStats
	err := r.db.WithContext(ctx).Model(&models.View{}).
		Select("COUNT(*) AS total_views, "+
			"COUNT(DISTINCT user_id) AS unique_users, "+
			"COUNT(DISTINCT session_id) AS unique_sessions").
		Where("product_id IN ? AND is_deleted = ?", productRefs, false).
		Scan(&stats).Error
	return stats, err
}

func (r *viewRepository) History(ctx context.Context, userID uint, limit int) ([]ViewedProduct, error) {
	var rows []ViewedProduct
	err := r.db.WithContext(ctx).Model(&models.View{}).
		Select("product_id, MAX(viewed_at) AS last_viewed_at").
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Group("product_id").
		Order("last_viewed_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *viewRepository) SoftDeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.View{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Update("is_deleted", true)
	return result.RowsAffected, result.Error
}

func (r *viewRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.View{}).Where("is_deleted = ?", false).Count(&n).Error
	return n, err
}
