package repositories

import (
	"context"
	"strings"

	"aesthetx/internal/models"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		Order("id DESC").
		First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return translateError(r.db.WithContext(ctx).Save(user).Error)
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter, offset, limit int) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if !filter.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := containsPattern(s)
		q = q.Where(`LOWER(email) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\'`, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *userRepository) Totals(ctx context.Context) (models.UserTotals, error) {
	var t models.UserTotals
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select(
			"COUNT(*) AS total, "+
				"COUNT(*) FILTER (WHERE is_active) AS active, "+
				"COUNT(*) FILTER (WHERE role IN ?) AS admins",
			[]string{models.RoleAdmin, models.RoleSuperAdmin},
		).
		Where("is_deleted = ?", false).
		Scan(&t).Error
	return t, err
}
