// Package domain holds entities that enforce business rules before data
// reaches storage.
package domain

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// Product wraps a persisted product and guards every state transition.
// Invariants: price > 0, stock >= 0, active only while stock > 0 at the time
// of activation.
type Product struct {
	id          uint
	name        string
	description string
	imageKey    *string
	price       decimal.Decimal
	stock       int
	active      bool
}

// NewProduct builds a fresh product with no stock, already active.
// It returns false when the price is not positive.
func NewProduct(input models.CreateProductInput) (*Product, bool) {
	if !input.Price.IsPositive() {
		return nil, false
	}
	return &Product{
		name:        input.Name,
		description: input.Description,
		imageKey:    copyString(input.ImageKey),
		price:       input.Price,
		stock:       0,
		active:      true,
	}, true
}

// RestoreProduct rehydrates a product from storage without validating it.
func RestoreProduct(data models.Product) *Product {
	return &Product{
		id:          data.ID,
		name:        data.Name,
		description: data.Description,
		imageKey:    copyString(data.ImageKey),
		price:       data.Price,
		stock:       data.Stock,
		active:      data.Active,
	}
}

// ID is 0 until the product has been stored.
func (p *Product) ID() uint { return p.id }

// Name returns the product name.
func (p *Product) Name() string { return p.name }

// Price returns the unit price.
func (p *Product) Price() decimal.Decimal { return p.price }

// Stock returns the units on hand.
func (p *Product) Stock() int { return p.stock }

// Active reports whether the product is offered for sale.
func (p *Product) Active() bool { return p.active }

// Available reports whether the product can currently be sold.
func (p *Product) Available() bool {
	return p.active && p.stock > 0
}

// AddStock increases stock by quantity.
func (p *Product) AddStock(quantity int) bool {
	if quantity <= 0 {
		return false
	}
	p.stock += quantity
	return true
}

// RemoveStock decreases stock by quantity, refusing to go below zero.
func (p *Product) RemoveStock(quantity int) bool {
	if quantity <= 0 || quantity > p.stock {
		return false
	}
	p.stock -= quantity
	return true
}

// ChangePrice sets a new positive price.
func (p *Product) ChangePrice(price decimal.Decimal) bool {
	if !price.IsPositive() {
		return false
	}
	p.price = price
	return true
}

// Activate marks the product active. A product without stock cannot be activated.
func (p *Product) Activate() bool {
	if p.stock <= 0 {
		return false
	}
	p.active = true
	return true
}

// Deactivate marks the product inactive regardless of stock.
func (p *Product) Deactivate() bool {
	p.active = false
	return true
}

// Export projects the entity back to its persisted shape.
func (p *Product) Export() models.Product {
	return models.Product{
		ID:          p.id,
		Name:        p.name,
		Description: p.description,
		Price:       p.price,
		Stock:       p.stock,
		Active:      p.active,
		ImageKey:    copyString(p.imageKey),
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
