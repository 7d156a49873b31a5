package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"storefront/internal/apperrors"
	"storefront/internal/models"
)

// NewValidator reports fields by their JSON names. Decimals are validated
// through their string form; the "price" rule accepts only prices the
// database stores unchanged.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	if err := v.RegisterValidation("price", validPrice); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate checks s against its struct tags and converts failures into a
// ValidationError listing every field.
func validate(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error())
	}
	details := make([]apperrors.ValidationDetail, 0, len(verrs))
	for _, e := range verrs {
		details = append(details, apperrors.ValidationDetail{
			Field:   e.Field(),
			Message: fmt.Sprintf("failed on the '%s' rule", ruleText(e)),
		})
	}
	return apperrors.NewValidationError("validation failed", details...)
}

func validPrice(fl validator.FieldLevel) bool {
	price, err := decimal.NewFromString(fl.Field().String())
	return err == nil && models.PriceFits(price)
}

func ruleText(e validator.FieldError) string {
	if e.Param() != "" {
		return e.Tag() + "=" + e.Param()
	}
	return e.Tag()
}

// parseBody decodes the JSON body into dst and validates it.
func parseBody(c *fiber.Ctx, v *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid request body",
			apperrors.ValidationDetail{Field: "body", Message: err.Error()})
	}
	return validate(v, dst)
}

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 1 {
		return 0, apperrors.NewValidationError("invalid id",
			apperrors.ValidationDetail{Field: name, Message: "must be a positive integer"})
	}
	return uint(id), nil
}

// parsePage reads cursor and limit from the query string, defaulting to the
// first page of DefaultPageLimit items.
func parsePage(c *fiber.Ctx, v *validator.Validate) (models.Page, error) {
	page := models.DefaultPage()
	if err := c.QueryParser(&page); err != nil {
		return page, apperrors.NewValidationError("invalid pagination",
			apperrors.ValidationDetail{Field: "query", Message: err.Error()})
	}
	return page, validate(v, page)
}
