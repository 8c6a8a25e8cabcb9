package validation

import "regexp"

const (
	// Password requirements
	MinPasswordLength = 6
	MaxPasswordLength = 72

	// Search
	MinSearchQueryLength = 2

	// Reviews
	MinRating            = 1
	MaxRating            = 5
	MaxReviewTitleLength = 120
	MaxCommentLength     = 2000

	// String lengths
	MaxNameLength        = 100
	MaxDescriptionLength = 5000
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodeRegex = regexp.MustCompile(`^[0-9]{6}$`)
)

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}
