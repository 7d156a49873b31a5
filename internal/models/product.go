package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the persisted shape of a stocked item.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null"`
	Active      bool            `json:"active" gorm:"not null"`
	ImageKey    *string         `json:"image_key" gorm:"type:varchar(255)"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Prices are stored in a decimal(10,2) column.
const PriceScale = 2

var (
	MinPrice = decimal.New(1, -PriceScale)
	MaxPrice = decimal.RequireFromString("99999999.99")
)

// PriceFits reports whether price is within [MinPrice, MaxPrice] and has at
// most PriceScale decimal places, so storage keeps it unchanged.
func PriceFits(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(MinPrice) &&
		price.LessThanOrEqual(MaxPrice) &&
		price.Equal(price.Truncate(PriceScale))
}

// CreateProductInput carries the fields a caller may set when creating a product.
type CreateProductInput struct {
	Name        string          `json:"name" validate:"required,min=1,max=255"`
	Description string          `json:"description" validate:"required,min=1"`
	Price       decimal.Decimal `json:"price" validate:"price"`
	ImageKey    *string         `json:"image_key" validate:"omitempty,min=1,max=255"`
}
