package utils

import (
	"errors"
	"strconv"
	"time"

	"aesthetx/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "aesthetx-api"

// GenerateSessionToken signs the claims of a session. The session id is
// carried as the token id.
func GenerateSessionToken(secret string, sessionID string, user *models.User, expiresAt time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("session secret not configured")
	}

	now := time.Now()
	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: models.GetDefaultPermissions(user.Role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSessionToken parses and validates a session token string.
func ParseSessionToken(secret, tokenStr string) (*models.SessionClaims, error) {
	if secret == "" {
		return nil, errors.New("session secret not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
