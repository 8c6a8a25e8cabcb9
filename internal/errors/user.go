package errors

var (
	ErrUserNotFound = newError("USER_NOT_FOUND",
		"User not found", KindNotFound)
	ErrPhoneLocked = newError("PHONE_LOCKED",
		"Phone number is locked", KindForbidden)
	ErrAddressLocked = newError("ADDRESS_LOCKED",
		"Address is locked", KindForbidden)
	ErrInvalidRole = newError("INVALID_ROLE",
		"Invalid role", KindInvalid)
	ErrOwnRoleChange = newError("OWN_ROLE_CHANGE",
		"You cannot change your own role", KindForbidden)
)
