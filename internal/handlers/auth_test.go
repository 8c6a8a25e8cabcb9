package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/middleware"
	"aesthetx/internal/models"
	"aesthetx/internal/services/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	auth.Service
	signedOut []string
}

func (s *stubAuth) SignIn(_ context.Context, email, password string, _ auth.SessionMeta) (*auth.Result, error) {
	if email != "asha@example.com" || password != "secret123" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &auth.Result{
		User:      &models.User{ID: 4, Email: email, Role: models.RoleUser, IsActive: true},
		Token:     "session-token",
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}, nil
}

func (s *stubAuth) SignOut(_ context.Context, token string) error {
	s.signedOut = append(s.signedOut, token)
	return nil
}

func (s *stubAuth) Verify(_ context.Context, token string) (*models.User, *models.SessionClaims, error) {
	return nil, nil, apperrors.ErrInvalidSession
}

func authApp(svc auth.Service) *fiber.App {
	h := NewAuthHandler(svc, true)
	app := fiber.New()
	app.Post("/signin", h.SignIn)
	app.Post("/signout", h.SignOut)
	app.Get("/verify", h.Verify)
	return app
}

func TestAuthHandler_SignInSetsCookie(t *testing.T) {
	resp, err := authApp(&stubAuth{}).Test(jsonRequest(http.MethodPost, "/signin",
		`{"email":"asha@example.com","password":"secret123"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, "session-token", session.Value)
	assert.True(t, session.HttpOnly)
	assert.True(t, session.Secure)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)

	body := decode(t, resp)
	assert.Equal(t, "session-token", body["token"])
	assert.NotEmpty(t, body["permissions"])
}

func TestAuthHandler_SignInWrongPassword(t *testing.T) {
	resp, err := authApp(&stubAuth{}).Test(jsonRequest(http.MethodPost, "/signin",
		`{"email":"asha@example.com","password":"nope"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", decode(t, resp)["error"])
}

func TestAuthHandler_SignInMissingFields(t *testing.T) {
	resp, err := authApp(&stubAuth{}).Test(jsonRequest(http.MethodPost, "/signin", `{"email":""}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandler_SignOutRevokesToken(t *testing.T) {
	svc := &stubAuth{}
	req := httptest.NewRequest(http.MethodPost, "/signout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "session-token"})

	resp, err := authApp(svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"session-token"}, svc.signedOut)
}

func TestAuthHandler_VerifyWithoutSession(t *testing.T) {
	resp, err := authApp(&stubAuth{}).Test(httptest.NewRequest(http.MethodGet, "/verify", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Contains(t, body, "user")
	assert.Nil(t, body["user"])
}
