package errors

import stderrors "errors"

var ErrInvalidInput = newError("INVALID_INPUT", "Invalid input", KindInvalid)

// ValidationError reports field-level problems with a request body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidation returns nil when fields is empty.
func NewValidation(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
