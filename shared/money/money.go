// Package money holds the rounding rules shared by prices, taxes and totals.
package money

import "github.com/shopspring/decimal"

// Places is the number of fraction digits amounts are stored with.
const Places = 2

var hundred = decimal.NewFromInt(100)

func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Places)
}

// Percent returns rate percent of amount, rounded half away from zero.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(rate).Div(hundred))
}

// Line multiplies a unit price by a quantity.
func Line(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return Round(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// NonNegative clamps amount at zero.
func NonNegative(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}

	return amount
}
