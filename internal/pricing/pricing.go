package pricing

import (
	"math"
	"strings"

	"mela/internal/models"
)

// Fixed rates. The tax is computed on subtotal plus service fee, and each
// stage is rounded independently; collapsing the rounding into one final
// step shifts totals by a unit in edge cases.
const (
	ServiceFeeRate = 0.05
	TaxRate        = 0.13
)

// Promo codes map to a discount rate on the subtotal. Lookup is
// case-insensitive; unknown or empty codes simply discount nothing.
var promoCodes = map[string]float64{
	"SAVE10": 0.10,
	"NEPAL5": 0.05,
}

// Breakdown is the priced view of a cart: every field is in whole currency
// units (NPR).
type Breakdown struct {
	Subtotal   int64
	ServiceFee int64
	Tax        int64
	Discount   int64
	Total      int64
}

// ComputeBreakdown prices a cart snapshot. It is a pure function: no side
// effects, identical output for identical input.
func ComputeBreakdown(items []models.CartItem, promoCode string) Breakdown {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}

	serviceFee := roundHalfUp(float64(subtotal) * ServiceFeeRate)
	tax := roundHalfUp(float64(subtotal+serviceFee) * TaxRate)

	var discount int64
	if rate, ok := promoCodes[strings.ToUpper(promoCode)]; ok {
		discount = roundHalfUp(float64(subtotal) * rate)
	}

	total := subtotal + serviceFee + tax - discount
	if total < 0 {
		total = 0
	}

	return Breakdown{
		Subtotal:   subtotal,
		ServiceFee: serviceFee,
		Tax:        tax,
		Discount:   discount,
		Total:      total,
	}
}

// DiscountRate returns the promo rate for a code, 0 when unknown.
func DiscountRate(promoCode string) float64 {
	return promoCodes[strings.ToUpper(promoCode)]
}

// roundHalfUp rounds to the nearest whole unit, ties away from zero.
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
