package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// OnboardingFinalStep is the step recorded once onboarding completes.
const OnboardingFinalStep = 3

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// IsZero reports whether no address field has been filled in.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.State) == "" &&
		strings.TrimSpace(a.Pincode) == "" &&
		strings.TrimSpace(a.Country) == ""
}

type User struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	Email               string                      `gorm:"uniqueIndex:idx_users_email_live,where:is_deleted = false;not null" json:"email"`
	PasswordHash        string                      `gorm:"not null" json:"-"`
	Name                string                      `gorm:"not null" json:"name"`
	Role                string                      `gorm:"default:'user';index" json:"role"`
	IsActive            bool                        `json:"isActive"`
	IsDeleted           bool                        `gorm:"index" json:"isDeleted"`
	DeletedAt           *time.Time                  `json:"deletedAt,omitempty"`
	OnboardingStep      int                         `json:"onboardingStep"`
	OnboardingCompleted bool                        `json:"onboardingCompleted"`
	Interests           pq.StringArray              `gorm:"type:text[]" json:"interests"`
	PhoneNumber         string                      `json:"phoneNumber"`
	PhoneLocked         bool                        `json:"phoneLocked"`
	Address             datatypes.JSONType[Address] `json:"address"`
	AddressLocked       bool                        `json:"addressLocked"`
	PhotoURL            string                      `json:"photoUrl"`
	LastLoginAt         *time.Time                  `json:"lastLoginAt,omitempty"`
	CreatedAt           time.Time                   `json:"createdAt"`
	UpdatedAt           time.Time                   `json:"updatedAt"`
}

// IsAdmin reports whether the user may use the admin surface.
func (u *User) IsAdmin() bool {
	return IsAdminRole(u.Role)
}

func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// NormalizeEmail trims and lower-cases an address before it is stored or compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
