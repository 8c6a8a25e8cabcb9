// Package middleware provides HTTP middleware components for the application.
// It includes session authentication and role checks used with the fiber
// web framework.
package middleware

import (
	"log"
	"strings"
	"time"

	"aesthetx/internal/models"
	"aesthetx/internal/services/auth"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "sessionToken"

// AuthMiddleware resolves the session token of a request into the signed-in
// user and stores it in the request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Handler rejects requests without a valid session. It checks for:
// - a session token in the cookie or a Bearer Authorization header
// - a valid signature and expiry
// - a live, unexpired session row for an active user
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	token := SessionToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not signed in"})
	}

	user, claims, err := m.authService.Verify(c.UserContext(), token)
	if err != nil {
		log.Printf("Session rejected: %v", err)
		ClearSessionCookie(c)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Session expired. Please sign in again"})
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	c.Locals("user", user)

	return c.Next()
}

// Optional attaches the user when a valid session is present and lets the
// request through either way.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	token := SessionToken(c)
	if token == "" {
		return c.Next()
	}

	user, claims, err := m.authService.Verify(c.UserContext(), token)
	if err == nil {
		c.Locals("claims", claims)
		c.Locals("userID", claims.UserID)
		c.Locals("user", user)
	}
	return c.Next()
}

// AdminAuthMiddleware verifies that the request has admin or super admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.SessionClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not signed in"})
	}

	if !models.IsAdminRole(claims.Role) {
		log.Printf("Access denied: user %d has role %s", claims.UserID, claims.Role)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
	}

	return c.Next()
}

// SuperAdminOnly allows only super admins through.
func SuperAdminOnly(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.SessionClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not signed in"})
	}
	if claims.Role != models.RoleSuperAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Super admin access required"})
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.SessionClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not signed in"})
		}

		// Super admins hold every permission.
		if claims.Role == models.RoleSuperAdmin || claims.HasPermission(permission) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}

// SessionToken reads the token from the session cookie, falling back to a
// Bearer Authorization header.
func SessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
