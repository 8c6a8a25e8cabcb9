package errors

var (
	ErrInsufficientStock = newError("INSUFFICIENT_STOCK",
		"Insufficient stock", KindConflict)
	ErrOptionUnavailable = newError("OPTION_UNAVAILABLE",
		"Selected size or color is not available", KindInvalid)
	ErrInvalidQuantity = newError("INVALID_QUANTITY",
		"Quantity must be at least 1", KindInvalid)
	ErrCartItemNotFound = newError("CART_ITEM_NOT_FOUND",
		"Cart item not found", KindNotFound)
	ErrCartEmpty = newError("CART_EMPTY",
		"Your cart is empty", KindInvalid)
	ErrInvalidShipping = newError("INVALID_SHIPPING",
		"Please fill in all shipping details", KindInvalid)
	ErrPaymentVerification = newError("PAYMENT_VERIFICATION_FAILED",
		"Payment verification failed", KindUnprocessable)
	ErrPaymentProvider = newError("PAYMENT_PROVIDER_ERROR",
		"Payment provider is unavailable", KindUnprocessable)
	ErrPaymentAlreadyUsed = newError("PAYMENT_ALREADY_USED",
		"This payment has already been used for an order", KindConflict)
	ErrPaymentAmountMismatch = newError("PAYMENT_AMOUNT_MISMATCH",
		"Your cart changed after payment was started. Please contact support before checking out again", KindConflict)
	ErrOrderNotRecorded = newError("ORDER_NOT_RECORDED",
		"Payment received but the order could not be saved. Please contact support", KindUnprocessable)
	ErrOrderNotFound = newError("ORDER_NOT_FOUND",
		"Order not found", KindNotFound)
	ErrInvalidStatusTransition = newError("INVALID_STATUS_TRANSITION",
		"Invalid status transition", KindInvalid)
)
