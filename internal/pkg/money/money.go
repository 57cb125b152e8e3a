package money

import "github.com/shopspring/decimal"

// Currency amounts and attendance quantities are both kept to 2 decimal
// places. Rounding is half-to-even so that large rosters do not accumulate
// a systematic bias in the run totals.

const places = 2

// RoundCurrency rounds a money amount to 2 decimal places (banker's rounding).
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(places)
}

// RoundQuantity rounds an hour or day quantity to 2 decimal places.
func RoundQuantity(quantity decimal.Decimal) decimal.Decimal {
	return quantity.RoundBank(places)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThanOrEqual(b) {
		return a
	}
	return b
}
