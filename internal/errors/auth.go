package errors

var (
	ErrEmailTaken = newError("EMAIL_TAKEN",
		"Email already registered", KindConflict)
	ErrInvalidCredentials = newError("INVALID_CREDENTIALS",
		"Invalid email or password", KindUnauthorized)
	ErrAdminRequired = newError("ADMIN_REQUIRED",
		"Access denied: admin privileges required", KindForbidden)
	ErrSuperAdminRequired = newError("SUPER_ADMIN_REQUIRED",
		"Access denied: super admin privileges required", KindForbidden)
	ErrInvalidSession = newError("INVALID_SESSION",
		"Invalid or expired session", KindUnauthorized)
	ErrAccountInactive = newError("ACCOUNT_INACTIVE",
		"Account is deactivated", KindUnauthorized)
	ErrWeakPassword = newError("WEAK_PASSWORD",
		"Password must be at least 6 characters", KindInvalid)
	ErrInvalidEmail = newError("INVALID_EMAIL",
		"Please enter a valid email address", KindInvalid)
	ErrIncorrectPassword = newError("INCORRECT_PASSWORD",
		"Current password is incorrect", KindInvalid)
)
