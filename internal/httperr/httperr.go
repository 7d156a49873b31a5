// Package httperr renders application errors as JSON responses.
package httperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperrors"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
	CodeUnavailable  = "UNAVAILABLE"
)

// Response is the body of every error reply.
type Response struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}

// Write maps err to a status code and writes the error body.
func Write(c *fiber.Ctx, err error) error {
	status, body := Resolve(err)
	return c.Status(status).JSON(body)
}

// Resolve returns the status and body err maps to.
func Resolve(err error) (int, Response) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		return fiber.StatusBadRequest, Response{Error: CodeValidation, Message: ve.Message, Details: ve.Details}
	}
	if nf, ok := apperrors.IsNotFoundError(err); ok {
		return fiber.StatusNotFound, Response{Error: CodeNotFound, Message: nf.Message}
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		var details []apperrors.ValidationDetail
		if ce.Field != "" {
			details = []apperrors.ValidationDetail{{Field: ce.Field, Message: ce.Message}}
		}
		return fiber.StatusConflict, Response{Error: CodeConflict, Message: ce.Message, Details: details}
	}
	if ue, ok := apperrors.IsUnauthorizedError(err); ok {
		return fiber.StatusUnauthorized, Response{Error: CodeUnauthorized, Message: ue.Message}
	}
	if fe, ok := apperrors.IsForbiddenError(err); ok {
		return fiber.StatusForbidden, Response{Error: CodeForbidden, Message: fe.Message}
	}
	if ue, ok := apperrors.IsUnavailableError(err); ok {
		return fiber.StatusServiceUnavailable, Response{Error: CodeUnavailable, Message: ue.Message}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, Response{Error: codeForStatus(fe.Code), Message: fe.Message}
	}

	return fiber.StatusInternalServerError, Response{Error: CodeInternal, Message: "internal server error"}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return CodeValidation
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusForbidden:
		return CodeForbidden
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return CodeNotFound
	case fiber.StatusConflict:
		return CodeConflict
	case fiber.StatusTooManyRequests:
		return CodeRateLimited
	case fiber.StatusServiceUnavailable:
		return CodeUnavailable
	default:
		return CodeInternal
	}
}
