package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorMatchesWrappedCopies(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", ErrInsufficientStock.WithMessage("Only 2 left in stock"))

	de, ok := AsDomain(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "Only 2 left in stock", de.Message)
	assert.ErrorIs(t, wrapped, ErrInsufficientStock)
	assert.NotErrorIs(t, wrapped, ErrCartEmpty)
}

func TestAsDomainPlainError(t *testing.T) {
	_, ok := AsDomain(fmt.Errorf("boom"))
	assert.False(t, ok)
}

func TestNewValidation(t *testing.T) {
	assert.NoError(t, NewValidation(nil))

	err := fmt.Errorf("wrap: %w", NewValidation(map[string]string{"phone": "must be a 10 digit phone number"}))
	ve, ok := AsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, "must be a 10 digit phone number", ve.Fields["phone"])
}
