package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("product not found")

	nf, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "product not found", nf.Message)
	assert.Equal(t, "product not found", err.Error())
}

func TestNotFoundError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("loading: %w", NewNotFoundError("category not found"))

	nf, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "category not found", nf.Message)
}

func TestIsHelpers_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	_, ok := IsNotFoundError(err)
	assert.False(t, ok)
	_, ok = IsValidationError(err)
	assert.False(t, ok)
	_, ok = IsConflictError(err)
	assert.False(t, ok)
	_, ok = IsUnauthorizedError(err)
	assert.False(t, ok)
	_, ok = IsForbiddenError(err)
	assert.False(t, ok)
	_, ok = IsUnavailableError(err)
	assert.False(t, ok)
}

func TestValidationError_Creation(t *testing.T) {
	err := NewValidationError("insufficient stock", ValidationDetail{Field: "quantity", Message: "exceeds stock"})

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "insufficient stock", ve.Error())
	assert.Len(t, ve.Details, 1)
	assert.Equal(t, "quantity", ve.Details[0].Field)
}

func TestConflictError_Creation(t *testing.T) {
	err := NewConflictError("product already exists", "name")

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "name", ce.Field)
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to load product", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "failed to load product")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
