package api

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// toCents converts a money amount to integer cents, rounding half up past two
// decimal places.
func toCents(d decimal.Decimal) (int64, error) {
	cents := d.Shift(2).Round(0)
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount out of range")
	}
	return cents.IntPart(), nil
}

// toPercentBasis converts a percent value (12.5) to hundredths (1250), the
// unit pledge rows store percent values in.
func toPercentBasis(d decimal.Decimal) (int64, error) {
	return toCents(d)
}

// fromCents renders cents as a two-decimal money value.
func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
