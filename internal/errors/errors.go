// Package errors defines the domain errors returned by services and the
// classification handlers use to pick a status code.
package errors

import stderrors "errors"

// Kind groups domain errors by how a caller should react to them.
type Kind int

const (
	KindInvalid Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnprocessable
)

// DomainError is a user-facing error with a stable code.
type DomainError struct {
	Code    string
	Message string
	Kind    Kind
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies still compare equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *DomainError) WithMessage(msg string) *DomainError {
	return &DomainError{Code: e.Code, Message: msg, Kind: e.Kind}
}

// AsDomain extracts a DomainError from an error chain.
func AsDomain(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func newError(code, message string, kind Kind) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: kind}
}

// IsKind reports whether err carries a DomainError of the given kind.
func IsKind(err error, kind Kind) bool {
	de, ok := AsDomain(err)
	return ok && de.Kind == kind
}
