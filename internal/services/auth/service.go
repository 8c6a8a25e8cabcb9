package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/events"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/repositories/cache"
	"aesthetx/internal/utils"
	"aesthetx/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	SignUp(ctx context.Context, input SignUpInput, meta SessionMeta) (*Result, error)
	SignIn(ctx context.Context, email, password string, meta SessionMeta) (*Result, error)
	AdminSignIn(ctx context.Context, email, password string, meta SessionMeta) (*Result, error)
	SignOut(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (*models.User, *models.SessionClaims, error)
	ChangePassword(ctx context.Context, userID uint, currentSessionID, oldPassword, newPassword string) error
	// RevokeUserSessions deletes every session of the user except exceptID.
	RevokeUserSessions(ctx context.Context, userID uint, exceptID string) error
}

type SignUpInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
}

// SessionMeta describes the client a session is opened for.
type SessionMeta struct {
	UserAgent string
	IP        string
}

type Result struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

type Config struct {
	Secret     string
	SessionTTL time.Duration
}

type service struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	cache       repositories.Cache
	publisher   events.Publisher
	cfg         Config
	now         func() time.Time
}

func NewService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	cache repositories.Cache,
	publisher events.Publisher,
	cfg Config,
) Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * 24 * time.Hour
	}
	return &service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cache:       cache,
		publisher:   publisher,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *service) SignUp(ctx context.Context, input SignUpInput, meta SessionMeta) (*Result, error) {
	email := models.NormalizeEmail(input.Email)
	if !validation.IsEmail(email) {
		return nil, apperrors.ErrInvalidEmail
	}
	if len(input.Password) < validation.MinPasswordLength {
		return nil, apperrors.ErrWeakPassword
	}

	if _, err := s.userRepo.GetActiveByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         input.Name,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	result, err := s.openSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	payload := events.UserSignedUpPayload{UserID: user.ID, Email: user.Email, Name: user.Name}
	if err := s.publisher.Publish(ctx, events.TopicUserSignedUp, events.EventUserSignedUp, user.Email, payload); err != nil {
		log.Printf("Failed to publish signup event for user %d: %v", user.ID, err)
	}
	return result, nil
}

func (s *service) SignIn(ctx context.Context, email, password string, meta SessionMeta) (*Result, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, user, meta)
}

func (s *service) AdminSignIn(ctx context.Context, email, password string, meta SessionMeta) (*Result, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		log.Printf("Admin sign-in refused for user %d with role %s", user.ID, user.Role)
		return nil, apperrors.ErrAdminRequired
	}
	return s.openSession(ctx, user, meta)
}

func (s *service) SignOut(ctx context.Context, token string) error {
	claims, err := utils.ParseSessionToken(s.cfg.Secret, token)
	if err != nil {
		// nothing to revoke
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, claims.SessionID()); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.evictSessions(ctx, claims.SessionID())
	return nil
}

func (s *service) Verify(ctx context.Context, token string) (*models.User, *models.SessionClaims, error) {
	claims, err := utils.ParseSessionToken(s.cfg.Secret, token)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidSession
	}

	session, err := s.loadSession(ctx, claims.SessionID())
	if err != nil {
		return nil, nil, err
	}
	if session.UserID != claims.UserID {
		return nil, nil, apperrors.ErrInvalidSession
	}
	if session.Expired(s.now()) {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			log.Printf("Failed to delete expired session %s: %v", session.ID, err)
		}
		s.evictSessions(ctx, session.ID)
		return nil, nil, apperrors.ErrInvalidSession
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, apperrors.ErrInvalidSession
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if user.IsDeleted || !user.IsActive {
		return nil, nil, apperrors.ErrAccountInactive
	}

	// role changes apply without a new token
	claims.Email = user.Email
	claims.Role = user.Role
	claims.Permissions = models.GetDefaultPermissions(user.Role)
	return user, claims, nil
}

func (s *service) ChangePassword(ctx context.Context, userID uint, currentSessionID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.ErrIncorrectPassword
	}
	if len(newPassword) < validation.MinPasswordLength {
		return apperrors.ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"password_hash": string(hashed)}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return s.RevokeUserSessions(ctx, userID, currentSessionID)
}

func (s *service) RevokeUserSessions(ctx context.Context, userID uint, exceptID string) error {
	ids, err := s.sessionRepo.DeleteByUser(ctx, userID, exceptID)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	s.evictSessions(ctx, ids...)
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	user, err := s.userRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("Sign-in failed: no user for %s", email)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("Sign-in failed: incorrect password for user ID: %d", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	fields := map[string]interface{}{"last_login_at": now}
	if !user.IsActive {
		log.Printf("Reactivating user %d on sign-in", user.ID)
		fields["is_active"] = true
		user.IsActive = true
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, fmt.Errorf("record sign-in: %w", err)
	}
	user.LastLoginAt = &now
	return user, nil
}

func (s *service) openSession(ctx context.Context, user *models.User, meta SessionMeta) (*Result, error) {
	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
		CreatedAt: now,
		UserAgent: meta.UserAgent,
		IP:        meta.IP,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := utils.GenerateSessionToken(s.cfg.Secret, session.ID, user, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &Result{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

func (s *service) loadSession(ctx context.Context, id string) (*models.Session, error) {
	key := cache.GenerateKey(cache.KeySession, id)
	var cached models.Session
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrInvalidSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	ttl := cache.TTLSession
	if remaining := session.ExpiresAt.Sub(s.now()); remaining < ttl {
		ttl = remaining
	}
	if ttl > 0 {
		if err := s.cache.SetWithTTL(ctx, key, session, ttl); err != nil {
			log.Printf("Failed to cache session: %v", err)
		}
	}
	return session, nil
}

func (s *service) evictSessions(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cache.GenerateKey(cache.KeySession, id)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Printf("Warning: Failed to evict sessions: %v", err)
	}
}
