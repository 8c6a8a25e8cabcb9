package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/services/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth accepts a single token.
type fakeAuth struct {
	auth.Service
	token  string
	user   *models.User
	claims *models.SessionClaims
}

func (f *fakeAuth) Verify(_ context.Context, token string) (*models.User, *models.SessionClaims, error) {
	if token != f.token {
		return nil, nil, apperrors.ErrInvalidSession
	}
	return f.user, f.claims, nil
}

func newFakeAuth(role string) *fakeAuth {
	return &fakeAuth{
		token: "good-token",
		user:  &models.User{ID: 4, Email: "asha@example.com", Role: role, IsActive: true},
		claims: &models.SessionClaims{
			UserID:      4,
			Email:       "asha@example.com",
			Role:        role,
			Permissions: models.GetDefaultPermissions(role),
		},
	}
}

func echoUser(c *fiber.Ctx) error {
	id, _ := c.Locals("userID").(uint)
	return c.JSON(fiber.Map{"userId": id})
}

func TestHandler_AcceptsCookieAndBearer(t *testing.T) {
	m := NewAuthMiddleware(newFakeAuth(models.RoleUser))
	app := fiber.New()
	app.Get("/me", m.Handler, echoUser)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandler_RejectsMissingAndBadTokens(t *testing.T) {
	m := NewAuthMiddleware(newFakeAuth(models.RoleUser))
	app := fiber.New()
	app.Get("/me", m.Handler, echoUser)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "stale"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	cleared := false
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared, "stale session cookie should be cleared")
}

func TestOptional_PassesAnonymousThrough(t *testing.T) {
	m := NewAuthMiddleware(newFakeAuth(models.RoleUser))
	app := fiber.New()
	app.Post("/views", m.Optional, echoUser)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/views", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/views", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer nonsense")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminGuards(t *testing.T) {
	tests := []struct {
		role       string
		admin      int
		superAdmin int
		perm       int
	}{
		{models.RoleUser, fiber.StatusForbidden, fiber.StatusForbidden, fiber.StatusForbidden},
		{models.RoleAdmin, fiber.StatusOK, fiber.StatusForbidden, fiber.StatusOK},
		{models.RoleSuperAdmin, fiber.StatusOK, fiber.StatusOK, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			m := NewAuthMiddleware(newFakeAuth(tt.role))
			app := fiber.New()
			app.Get("/admin", m.Handler, AdminAuthMiddleware, echoUser)
			app.Get("/role", m.Handler, SuperAdminOnly, echoUser)
			app.Get("/orders", m.Handler, HasPermission(models.PermissionOrderManage), echoUser)

			for path, want := range map[string]int{"/admin": tt.admin, "/role": tt.superAdmin, "/orders": tt.perm} {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")
				resp, err := app.Test(req)
				require.NoError(t, err)
				assert.Equal(t, want, resp.StatusCode, path)
			}
		})
	}
}

func TestSessionToken_PrefersCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(SessionToken(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	req.Header.Set(fiber.HeaderAuthorization, "Bearer from-header")
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", string(body))
}
