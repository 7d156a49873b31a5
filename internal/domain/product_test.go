package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func newInput(price string) models.CreateProductInput {
	return models.CreateProductInput{
		Name:        "Notebook",
		Description: "A5 dotted notebook",
		Price:       decimal.RequireFromString(price),
	}
}

func mustNewProduct(t *testing.T, price string) *Product {
	t.Helper()
	p, ok := NewProduct(newInput(price))
	require.True(t, ok)
	require.NotNil(t, p)
	return p
}

func TestNewProduct_ValidPrice(t *testing.T) {
	for _, price := range []string{"0.01", "10.00", "1999.99"} {
		t.Run(price, func(t *testing.T) {
			p := mustNewProduct(t, price)

			assert.Equal(t, 0, p.Stock())
			assert.True(t, p.Active())
			assert.True(t, p.Price().Equal(decimal.RequireFromString(price)))
			assert.Equal(t, uint(0), p.ID())
			assert.False(t, p.Available())
		})
	}
}

func TestNewProduct_NonPositivePrice(t *testing.T) {
	for _, price := range []string{"0", "-1", "-0.01"} {
		t.Run(price, func(t *testing.T) {
			p, ok := NewProduct(newInput(price))

			assert.False(t, ok)
			assert.Nil(t, p)
		})
	}
}

func TestNewProduct_CopiesImageKey(t *testing.T) {
	key := "products/abc"
	input := newInput("5")
	input.ImageKey = &key

	p, ok := NewProduct(input)
	require.True(t, ok)
	key = "mutated"

	exported := p.Export()
	require.NotNil(t, exported.ImageKey)
	assert.Equal(t, "products/abc", *exported.ImageKey)
}

func TestRestoreProduct_DoesNotValidate(t *testing.T) {
	p := RestoreProduct(models.Product{ID: 7, Name: "Legacy", Price: decimal.Zero, Stock: 0, Active: true})

	assert.Equal(t, uint(7), p.ID())
	assert.Equal(t, "Legacy", p.Name())
	assert.True(t, p.Price().IsZero())
	assert.True(t, p.Active())
}

func TestProduct_AddThenRemoveStockRoundTrip(t *testing.T) {
	for _, q := range []int{1, 5, 1000} {
		p := RestoreProduct(models.Product{Price: decimal.NewFromInt(3), Stock: 4})

		require.True(t, p.AddStock(q))
		require.True(t, p.RemoveStock(q))
		assert.Equal(t, 4, p.Stock())
	}
}

func TestProduct_AddStockRejectsNonPositive(t *testing.T) {
	p := mustNewProduct(t, "10")

	assert.False(t, p.AddStock(0))
	assert.False(t, p.AddStock(-3))
	assert.Equal(t, 0, p.Stock())
}

func TestProduct_RemoveStockGuards(t *testing.T) {
	p := mustNewProduct(t, "10")

	assert.False(t, p.RemoveStock(1), "empty stock")
	require.True(t, p.AddStock(2))
	assert.False(t, p.RemoveStock(0))
	assert.False(t, p.RemoveStock(-1))
	assert.False(t, p.RemoveStock(3))
	assert.Equal(t, 2, p.Stock())
}

func TestProduct_ActivateRequiresStock(t *testing.T) {
	p := mustNewProduct(t, "10")
	p.Deactivate()

	assert.False(t, p.Activate())
	assert.False(t, p.Active())

	require.True(t, p.AddStock(1))
	assert.True(t, p.Activate())
	assert.True(t, p.Active())
	assert.True(t, p.Available())
}

func TestProduct_DeactivateAlwaysSucceeds(t *testing.T) {
	for _, stock := range []int{0, 1, 50} {
		p := RestoreProduct(models.Product{Price: decimal.NewFromInt(1), Stock: stock, Active: true})

		assert.True(t, p.Deactivate())
		assert.False(t, p.Active())
		assert.Equal(t, stock, p.Stock())

		assert.True(t, p.Deactivate(), "deactivating twice is a no-op")
		assert.False(t, p.Active())
	}
}

func TestProduct_ChangePrice(t *testing.T) {
	p := mustNewProduct(t, "10")

	assert.False(t, p.ChangePrice(decimal.Zero))
	assert.False(t, p.ChangePrice(decimal.NewFromInt(-5)))
	assert.True(t, p.Price().Equal(decimal.NewFromInt(10)))

	assert.True(t, p.ChangePrice(decimal.RequireFromString("12.50")))
	assert.True(t, p.Price().Equal(decimal.RequireFromString("12.50")))
}

func TestProduct_ScenarioA(t *testing.T) {
	p := mustNewProduct(t, "10.00")
	assert.Equal(t, 0, p.Stock())
	assert.True(t, p.Active())

	require.True(t, p.AddStock(5))
	assert.Equal(t, 5, p.Stock())

	require.True(t, p.Activate())
	assert.True(t, p.Active())

	require.True(t, p.RemoveStock(3))
	assert.Equal(t, 2, p.Stock())

	assert.False(t, p.RemoveStock(3))
	assert.Equal(t, 2, p.Stock())
}

func TestProduct_ExportReflectsState(t *testing.T) {
	key := "products/x"
	p := RestoreProduct(models.Product{
		ID:          3,
		Name:        "Pen",
		Description: "Blue ink",
		Price:       decimal.NewFromInt(2),
		Stock:       1,
		Active:      false,
		ImageKey:    &key,
	})
	require.True(t, p.AddStock(4))
	require.True(t, p.Activate())

	exported := p.Export()

	assert.Equal(t, uint(3), exported.ID)
	assert.Equal(t, "Pen", exported.Name)
	assert.Equal(t, "Blue ink", exported.Description)
	assert.Equal(t, 5, exported.Stock)
	assert.True(t, exported.Active)
	require.NotNil(t, exported.ImageKey)
	assert.Equal(t, key, *exported.ImageKey)
}
