package repositories

import (
	"context"
	"time"

	"aesthetx/internal/models"

	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return translateError(r.db.WithContext(ctx).Create(session).Error)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, translateError(err)
	}
	return &s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
}

func (r *sessionRepository) DeleteByUser(ctx context.Context, userID uint, exceptID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Session{}).Where("user_id = ?", userID)
		if exceptID != "" {
			q = q.Where("id <> ?", exceptID)
		}
		if err := q.Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Where("id IN ?", ids).Delete(&models.Session{}).Error
	})
	return ids, err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

func (r *sessionRepository) DeleteForInactiveUsers(ctx context.Context) (int64, error) {
	inactive := r.db.Model(&models.User{}).
		Select("id").
		Where("is_active = ? OR is_deleted = ?", false, true)
	result := r.db.WithContext(ctx).Where("user_id IN (?)", inactive).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
