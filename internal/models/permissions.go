package models

// Permission constants
const (
	// Shopper permissions
	PermissionProfileWrite   = "profile:write"
	PermissionCartWrite      = "cart:write"
	PermissionOrderCreate    = "order:create"
	PermissionReviewWrite    = "review:write"
	PermissionChangePassword = "user:change-password"

	// Catalogue permissions
	PermissionProductWrite = "product:write"
	PermissionUploadWrite  = "upload:write"

	// Back office permissions
	PermissionReadAdmin      = "admin:read"
	PermissionOrderManage    = "order:manage"
	PermissionReviewModerate = "review:moderate"
	PermissionUserRead       = "user:read"
	PermissionUserWrite      = "user:write"
	PermissionRoleAssign     = "user:role-assign"
)

var shopperPermissions = []string{
	PermissionProfileWrite,
	PermissionCartWrite,
	PermissionOrderCreate,
	PermissionReviewWrite,
	PermissionChangePassword,
}

var adminPermissions = []string{
	PermissionProductWrite,
	PermissionUploadWrite,
	PermissionReadAdmin,
	PermissionOrderManage,
	PermissionReviewModerate,
	PermissionUserRead,
	PermissionUserWrite,
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleSuperAdmin:
		perms := append([]string{}, shopperPermissions...)
		perms = append(perms, adminPermissions...)
		return append(perms, PermissionRoleAssign)
	case RoleAdmin:
		perms := append([]string{}, shopperPermissions...)
		return append(perms, adminPermissions...)
	case RoleUser:
		return append([]string{}, shopperPermissions...)
	default:
		return []string{}
	}
}
