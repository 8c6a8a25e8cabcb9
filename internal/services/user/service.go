package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/validation"

	"gorm.io/datatypes"
)

// SessionRevoker ends the sessions of a user.
type SessionRevoker interface {
	RevokeUserSessions(ctx context.Context, userID uint, exceptID string) error
}

type ProfileUpdate struct {
	Name        *string         `json:"name" validate:"omitempty,min=1,max=100"`
	PhoneNumber *string         `json:"phoneNumber"`
	Address     *models.Address `json:"address"`
	PhotoURL    *string         `json:"photoUrl" validate:"omitempty,max=2048"`
}

type OnboardingUpdate struct {
	Step        int             `json:"step" validate:"gte=0,lte=3"`
	Interests   []string        `json:"interests"`
	PhoneNumber *string         `json:"phoneNumber"`
	Address     *models.Address `json:"address"`
}

type Service interface {
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error)
	UpdateOnboarding(ctx context.Context, userID uint, update OnboardingUpdate) (*models.User, error)
	CompleteOnboarding(ctx context.Context, userID uint) (*models.User, error)
	DeactivateAccount(ctx context.Context, userID uint) error
	DeleteAccount(ctx context.Context, userID uint) error

	ListUsers(ctx context.Context, filter repositories.UserFilter, offset, limit int) ([]models.User, int64, error)
	SetRole(ctx context.Context, actor *models.SessionClaims, userID uint, role string) (*models.User, error)
	SetActive(ctx context.Context, userID uint, active bool) (*models.User, error)
	SoftDelete(ctx context.Context, userID uint) error
	UnlockFields(ctx context.Context, userID uint, phone, address bool) (*models.User, error)
}

type service struct {
	repo     repositories.UserRepository
	sessions SessionRevoker
	now      func() time.Time
}

func NewService(repo repositories.UserRepository, sessions SessionRevoker) Service {
	return &service{
		repo:     repo,
		sessions: sessions,
		now:      time.Now,
	}
}

func (s *service) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.load(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, apperrors.ErrInvalidInput.WithMessage("Name must not be empty")
		}
		user.Name = strings.TrimSpace(*update.Name)
	}
	if err := applyContact(user, update.PhoneNumber, update.Address); err != nil {
		return nil, err
	}
	if update.PhotoURL != nil {
		user.PhotoURL = strings.TrimSpace(*update.PhotoURL)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *service) UpdateOnboarding(ctx context.Context, userID uint, update OnboardingUpdate) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	step := update.Step
	if step > models.OnboardingFinalStep {
		step = models.OnboardingFinalStep
	}
	if step > user.OnboardingStep {
		user.OnboardingStep = step
	}
	if update.Interests != nil {
		user.Interests = normalizeInterests(update.Interests)
	}
	if err := applyContact(user, update.PhoneNumber, update.Address); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update onboarding: %w", err)
	}
	return user, nil
}

func (s *service) CompleteOnboarding(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.OnboardingCompleted = true
	user.OnboardingStep = models.OnboardingFinalStep
	if strings.TrimSpace(user.PhoneNumber) != "" {
		user.PhoneLocked = true
	}
	if !user.Address.Data().IsZero() {
		user.AddressLocked = true
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("complete onboarding: %w", err)
	}
	return user, nil
}

func (s *service) DeactivateAccount(ctx context.Context, userID uint) error {
	if err := s.repo.UpdateFields(ctx, userID, map[string]interface{}{"is_active": false}); err != nil {
		return s.mapErr(err)
	}
	return s.sessions.RevokeUserSessions(ctx, userID, "")
}

func (s *service) DeleteAccount(ctx context.Context, userID uint) error {
	return s.SoftDelete(ctx, userID)
}

func (s *service) ListUsers(ctx context.Context, filter repositories.UserFilter, offset, limit int) ([]models.User, int64, error) {
	return s.repo.List(ctx, filter, offset, limit)
}

func (s *service) SetRole(ctx context.Context, actor *models.SessionClaims, userID uint, role string) (*models.User, error) {
	if actor == nil || actor.Role != models.RoleSuperAdmin {
		return nil, apperrors.ErrSuperAdminRequired
	}
	if actor.UserID == userID {
		return nil, apperrors.ErrOwnRoleChange
	}
	if !models.IsValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(ctx, userID, map[string]interface{}{"role": role}); err != nil {
		return nil, s.mapErr(err)
	}
	user.Role = role
	return user, nil
}

func (s *service) SetActive(ctx context.Context, userID uint, active bool) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(ctx, userID, map[string]interface{}{"is_active": active}); err != nil {
		return nil, s.mapErr(err)
	}
	user.IsActive = active
	if !active {
		if err := s.sessions.RevokeUserSessions(ctx, userID, ""); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *service) SoftDelete(ctx context.Context, userID uint) error {
	now := s.now()
	err := s.repo.UpdateFields(ctx, userID, map[string]interface{}{
		"is_deleted": true,
		"deleted_at": now,
		"is_active":  false,
	})
	if err != nil {
		return s.mapErr(err)
	}
	return s.sessions.RevokeUserSessions(ctx, userID, "")
}

func (s *service) UnlockFields(ctx context.Context, userID uint, phone, address bool) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if phone {
		fields["phone_locked"] = false
		user.PhoneLocked = false
	}
	if address {
		fields["address_locked"] = false
		user.AddressLocked = false
	}
	if len(fields) == 0 {
		return user, nil
	}
	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, s.mapErr(err)
	}
	return user, nil
}

func (s *service) load(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if user.IsDeleted {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *service) mapErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.ErrUserNotFound
	}
	return err
}

// applyContact sets phone and address, refusing changes to locked fields.
func applyContact(user *models.User, phone *string, address *models.Address) error {
	v := validation.New()

	if phone != nil {
		next := strings.TrimSpace(*phone)
		if next != user.PhoneNumber {
			if user.PhoneLocked {
				return apperrors.ErrPhoneLocked
			}
			if next != "" {
				v.Phone("phoneNumber", next)
			}
			user.PhoneNumber = next
		}
	}

	if address != nil && *address != user.Address.Data() {
		if user.AddressLocked {
			return apperrors.ErrAddressLocked
		}
		v.Address(*address)
		user.Address = datatypes.NewJSONType(*address)
	}

	return apperrors.NewValidation(v.Errors)
}

func normalizeInterests(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, i := range in {
		i = strings.TrimSpace(i)
		if i == "" || seen[strings.ToLower(i)] {
			continue
		}
		seen[strings.ToLower(i)] = true
		out = append(out, i)
	}
	return out
}
