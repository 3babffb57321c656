package analytics

import "github.com/shopspring/decimal"

const moneyPlaces = 2

// cents rounds d to whole cents, half away from zero.
func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// money converts a decimal amount to the float64 used in output structures.
func money(d decimal.Decimal) float64 {
	return cents(d).InexactFloat64()
}

// ratio returns num/den rounded to cents, or zero when den is zero.
func ratio(num decimal.Decimal, den int) float64 {
	if den == 0 {
		return 0
	}
	return money(num.Div(decimal.NewFromInt(int64(den))))
}

// roundFloat rounds v to the given number of decimal places.
func roundFloat(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
