package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are carried by the session token. RegisteredClaims.ID holds
// the session id.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID      uint     `json:"userId"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission
func (c *SessionClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (c *SessionClaims) SessionID() string {
	return c.ID
}
