package decimal

import (
	"github.com/shopspring/decimal"
)

// Places is the number of fraction digits kept for SAR amounts (halalas)
const Places = 2

// Zero is decimal zero
var Zero = decimal.Zero

var hundred = decimal.NewFromInt(100)

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round rounds to 2 places, half away from zero
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// LineTotal computes quantity * unit price, rounded to 2 places
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(Places)
}

// CalculateVAT computes amount * (rate/100), rounded to 2 places
func CalculateVAT(amount, ratePercent decimal.Decimal) decimal.Decimal {
	if ratePercent.IsZero() {
		return Zero
	}
	return amount.Mul(ratePercent).Div(hundred).Round(Places)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// Fixed renders d with exactly 2 fraction digits and no grouping ("17250.00")
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}
