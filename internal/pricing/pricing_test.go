package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mela/internal/models"
)

func cart(lines ...models.CartItem) []models.CartItem {
	return lines
}

func TestComputeBreakdownNoPromo(t *testing.T) {
	b := ComputeBreakdown(cart(models.CartItem{Price: 500, Quantity: 2}), "")

	assert.Equal(t, int64(1000), b.Subtotal)
	assert.Equal(t, int64(50), b.ServiceFee)
	assert.Equal(t, int64(137), b.Tax) // 13% of 1050, rounded
	assert.Equal(t, int64(0), b.Discount)
	assert.Equal(t, int64(1187), b.Total)
}

func TestComputeBreakdownWithPromo(t *testing.T) {
	b := ComputeBreakdown(cart(models.CartItem{Price: 500, Quantity: 2}), "SAVE10")

	assert.Equal(t, int64(100), b.Discount)
	assert.Equal(t, int64(1087), b.Total)
}

func TestComputeBreakdownPromoCaseInsensitive(t *testing.T) {
	upper := ComputeBreakdown(cart(models.CartItem{Price: 1500, Quantity: 1}), "NEPAL5")
	lower := ComputeBreakdown(cart(models.CartItem{Price: 1500, Quantity: 1}), "nepal5")

	assert.Equal(t, upper, lower)
	assert.Equal(t, int64(75), upper.Discount)
}

func TestComputeBreakdownUnknownPromo(t *testing.T) {
	b := ComputeBreakdown(cart(models.CartItem{Price: 500, Quantity: 2}), "BOGUS")
	assert.Equal(t, int64(0), b.Discount)

	empty := ComputeBreakdown(cart(models.CartItem{Price: 500, Quantity: 2}), "")
	assert.Equal(t, b, empty)
}

func TestComputeBreakdownEmptyCart(t *testing.T) {
	b := ComputeBreakdown(nil, "SAVE10")

	assert.Equal(t, int64(0), b.Subtotal)
	assert.Equal(t, int64(0), b.Total)
}

func TestComputeBreakdownStageRounding(t *testing.T) {
	// subtotal 13: fee = round(0.65) = 1, tax = round(14 * 0.13) = round(1.82) = 2,
	// total 16. A single end-of-computation rounding would give
	// round(13 + 0.65 + 13.65*0.13) = round(15.42) = 15.
	b := ComputeBreakdown(cart(models.CartItem{Price: 13, Quantity: 1}), "")

	assert.Equal(t, int64(1), b.ServiceFee)
	assert.Equal(t, int64(2), b.Tax)
	assert.Equal(t, int64(16), b.Total)
}

func TestComputeBreakdownDeterministic(t *testing.T) {
	items := cart(
		models.CartItem{Price: 1500, Quantity: 3},
		models.CartItem{Price: 2000, Quantity: 1},
	)

	first := ComputeBreakdown(items, "SAVE10")
	second := ComputeBreakdown(items, "SAVE10")

	assert.Equal(t, first, second)
	assert.Equal(t, first.Subtotal+first.ServiceFee+first.Tax-first.Discount, first.Total)
}

func TestComputeBreakdownTotalNeverNegative(t *testing.T) {
	// Zero-priced cart with a promo still yields a zero total, not negative.
	b := ComputeBreakdown(cart(models.CartItem{Price: 0, Quantity: 5}), "SAVE10")
	assert.Equal(t, int64(0), b.Total)
}
