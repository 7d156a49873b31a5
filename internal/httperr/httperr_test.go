package httperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"storefront/internal/apperrors"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.NewValidationError("bad"), fiber.StatusBadRequest, CodeValidation},
		{fmt.Errorf("wrapped: %w", apperrors.NewNotFoundError("gone")), fiber.StatusNotFound, CodeNotFound},
		{apperrors.NewConflictError("dup", "name"), fiber.StatusConflict, CodeConflict},
		{apperrors.NewUnauthorizedError("who"), fiber.StatusUnauthorized, CodeUnauthorized},
		{apperrors.NewForbiddenError("no"), fiber.StatusForbidden, CodeForbidden},
		{apperrors.NewUnavailableError("off"), fiber.StatusServiceUnavailable, CodeUnavailable},
		{fiber.NewError(fiber.StatusTooManyRequests, "slow down"), fiber.StatusTooManyRequests, CodeRateLimited},
		{fiber.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
		{apperrors.NewInternalError("boom", errors.New("db")), fiber.StatusInternalServerError, CodeInternal},
		{errors.New("plain"), fiber.StatusInternalServerError, CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, body := Resolve(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Error)
		})
	}
}

func TestResolve_InternalHidesCause(t *testing.T) {
	_, body := Resolve(apperrors.NewInternalError("boom", errors.New("password=hunter2")))

	assert.NotContains(t, body.Message, "hunter2")
}

func TestResolve_ConflictCarriesField(t *testing.T) {
	_, body := Resolve(apperrors.NewConflictError("dup", "email"))

	assert.Len(t, body.Details, 1)
	assert.Equal(t, "email", body.Details[0].Field)
}
