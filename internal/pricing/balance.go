package pricing

import "errors"

// ErrInvalidAmount is returned when a payment amount is zero or negative.
var ErrInvalidAmount = errors.New("pricing: payment amount must be positive")

// DiscountRate is the flat percentage applied when a discount is toggled on.
const DiscountRate = 0.10

// Balance carries the monetary fields re-derived after an order mutation.
// Invariant: Total = Subtotal - Discount and Due = Total - Paid.
type Balance struct {
	Subtotal float64
	Discount float64
	Total    float64
	Paid     float64
	Due      float64
}

// Recompute re-establishes the balance invariant from the three base figures.
// Values stay as raw floats; rounding happens only at formatting time so
// repeated mutations do not accumulate rounding error.
func Recompute(subtotal, discount, paid float64) Balance {
	total := subtotal - discount
	return Balance{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
		Paid:     paid,
		Due:      total - paid,
	}
}

// ToggleDiscount flips the flat discount on an order: no discount becomes 10%
// of the subtotal, an existing discount resets to zero.
func ToggleDiscount(subtotal, currentDiscount, paid float64) Balance {
	discount := 0.0
	if currentDiscount == 0 {
		discount = DiscountRate * subtotal
	}
	return Recompute(subtotal, discount, paid)
}

// AddPayment records a payment against the order total. Non-positive amounts
// are rejected and must surface to the caller.
func AddPayment(total, paid, amount float64) (newPaid, due float64, err error) {
	if amount <= 0 {
		return paid, total - paid, ErrInvalidAmount
	}
	newPaid = paid + amount
	return newPaid, total - newPaid, nil
}

// ResetPayment clears all recorded payments, leaving the full total due.
func ResetPayment(total float64) (paid, due float64) {
	return 0, total
}
