package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("creating school: %w", NewNotFound("School"))
	de := ToDomainError(wrapped)
	assert.Equal(t, KindNotFound, de.Kind)
	assert.Equal(t, "School not found", de.Message)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	cause := errors.New("connection reset")
	de = ToDomainError(cause)
	assert.Equal(t, KindInternal, de.Kind)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestNewDomainError_DefaultCode(t *testing.T) {
	de := NewDomainError("", "nope", http.StatusTeapot, nil)
	assert.Equal(t, CodeDeclaredDefault, de.Code)
	assert.Equal(t, KindDeclared, de.Kind)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Invalid input",
		FieldError{Field: "email", Message: "email is required"},
		FieldError{Field: "password", Message: "password must be at least 8 characters"},
	)
	require.True(t, Is(err, KindValidation))
	fields, ok := ToDomainError(err).Details.([]FieldError)
	require.True(t, ok)
	assert.Len(t, fields, 2)

	assert.Nil(t, ToDomainError(NewValidationError("Invalid input")).Details)
}

func TestNewRateLimited(t *testing.T) {
	de := ToDomainError(NewRateLimited(RateLimitDetails{Limit: 5, ResetAt: 1700000060}))
	assert.Equal(t, http.StatusTooManyRequests, de.HTTPStatus)
	assert.Equal(t, CodeRateLimited, de.Code)
	assert.Equal(t, RateLimitDetails{Limit: 5, Remaining: 0, ResetAt: 1700000060}, de.Details)
}
