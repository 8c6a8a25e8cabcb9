package utils

import (
	"errors"

	"aesthetx/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetSessionClaims extracts the session claims from the Fiber context.
// It returns an error if the claims are missing or of an invalid type.
func GetSessionClaims(c *fiber.Ctx) (*models.SessionClaims, error) {
	v := c.Locals("claims")
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.SessionClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}

// OptionalUserID returns the signed-in user's id, if any.
func OptionalUserID(c *fiber.Ctx) *uint {
	claims, err := GetSessionClaims(c)
	if err != nil {
		return nil
	}
	id := claims.UserID
	return &id
}
