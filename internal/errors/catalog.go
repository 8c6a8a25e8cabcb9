package errors

var (
	ErrProductNotFound = newError("PRODUCT_NOT_FOUND",
		"Product not found", KindNotFound)
	ErrInvalidProduct = newError("INVALID_PRODUCT",
		"Invalid product data", KindInvalid)
	ErrQueryTooShort = newError("QUERY_TOO_SHORT",
		"Search query must be at least 2 characters", KindInvalid)
	ErrReviewExists = newError("REVIEW_EXISTS",
		"You have already reviewed this product", KindConflict)
	ErrReviewNotFound = newError("REVIEW_NOT_FOUND",
		"Review not found", KindNotFound)
	ErrInvalidRating = newError("INVALID_RATING",
		"Rating must be between 1 and 5", KindInvalid)
	ErrInvalidUpload = newError("INVALID_UPLOAD",
		"Unsupported file", KindInvalid)
)
