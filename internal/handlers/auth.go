package handlers

import (
	"log"
	"strings"
	"time"

	"aesthetx/internal/middleware"
	"aesthetx/internal/models"
	"aesthetx/internal/services/auth"
	"aesthetx/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService  auth.Service
	secureCookie bool
}

func NewAuthHandler(authService auth.Service, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

type credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignUp creates a shopper account and signs it in.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var input auth.SignUpInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	result, err := h.authService.SignUp(c.UserContext(), input, sessionMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	log.Printf("✅ New account %d", result.User.ID)
	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	return utils.Created(c, authResponse(result))
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var input credentials
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	result, err := h.authService.SignIn(c.UserContext(), input.Email, input.Password, sessionMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	return utils.Success(c, authResponse(result))
}

// AdminSignIn signs in admins and super admins only.
func (h *AuthHandler) AdminSignIn(c *fiber.Ctx) error {
	var input credentials
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	result, err := h.authService.AdminSignIn(c.UserContext(), input.Email, input.Password, sessionMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	return utils.Success(c, authResponse(result))
}

// SignOut always succeeds and clears the cookie, even for stale tokens.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if token := middleware.SessionToken(c); token != "" {
		if err := h.authService.SignOut(c.UserContext(), token); err != nil {
			log.Printf("Sign out: %v", err)
		}
	}
	middleware.ClearSessionCookie(c)
	return utils.Success(c, fiber.Map{"success": true})
}

// Verify reports the signed-in user, or {user: null} without a valid session.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	token := middleware.SessionToken(c)
	if token == "" {
		return utils.Success(c, fiber.Map{"user": nil})
	}

	user, claims, err := h.authService.Verify(c.UserContext(), token)
	if err != nil {
		middleware.ClearSessionCookie(c)
		return utils.Success(c, fiber.Map{"user": nil})
	}

	return utils.Success(c, fiber.Map{
		"user":        user,
		"permissions": claims.Permissions,
		"expiresAt":   claims.ExpiresAt,
	})
}

type passwordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// ChangePassword keeps the current session and signs out every other one.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims, err := utils.GetSessionClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Not signed in")
	}

	var input passwordChange
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	err = h.authService.ChangePassword(c.UserContext(), claims.UserID, claims.SessionID(), input.CurrentPassword, input.NewPassword)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"success": true})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func authResponse(result *auth.Result) fiber.Map {
	return fiber.Map{
		"user":        result.User,
		"token":       result.Token,
		"expiresAt":   result.ExpiresAt,
		"permissions": models.GetDefaultPermissions(result.User.Role),
	}
}

func sessionMeta(c *fiber.Ctx) auth.SessionMeta {
	return auth.SessionMeta{
		UserAgent: strings.TrimSpace(c.Get(fiber.HeaderUserAgent)),
		IP:        c.IP(),
	}
}
