package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/apperrors"
	"storefront/internal/models"
)

// checkPage rejects windows the repositories cannot serve.
func checkPage(page models.Page) error {
	if page.Valid() {
		return nil
	}
	var details []apperrors.ValidationDetail
	if page.Cursor < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "cursor", Message: "must not be negative"})
	}
	if page.Limit < 1 || page.Limit > models.MaxPageLimit {
		details = append(details, apperrors.ValidationDetail{
			Field:   "limit",
			Message: fmt.Sprintf("must be between 1 and %d", models.MaxPageLimit),
		})
	}
	return apperrors.NewValidationError("invalid pagination", details...)
}

// checkPrice rejects prices the price column would round or overflow.
func checkPrice(price decimal.Decimal) error {
	if models.PriceFits(price) {
		return nil
	}
	return apperrors.NewValidationError("invalid price", apperrors.ValidationDetail{
		Field:   "price",
		Message: fmt.Sprintf("must be between %s and %s with at most %d decimal places", models.MinPrice, models.MaxPrice, models.PriceScale),
	})
}
