// Package money provides the fixed-precision arithmetic used by every
// component that touches a monetary amount. All totals are computed and
// compared at exactly two decimal places, rounded half away from zero, so
// downstream balance checks never see floating-point drift.
package money

import (
	"fmt"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places every boundary amount carries.
const Precision = 2

// Round2 rounds an amount to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Precision)
}

// Sum adds the given amounts and rounds the result to two decimal places.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round2(total)
}

// Equal compares two amounts after rounding both to two decimal places.
func Equal(a, b decimal.Decimal) bool {
	return Round2(a).Equal(Round2(b))
}

// IsPositive reports whether the amount rounds to a value strictly above zero.
func IsPositive(d decimal.Decimal) bool {
	return Round2(d).IsPositive()
}

// IsZero reports whether the amount rounds to exactly zero.
func IsZero(d decimal.Decimal) bool {
	return Round2(d).IsZero()
}

// IsNegative reports whether the amount rounds to a value below zero.
func IsNegative(d decimal.Decimal) bool {
	return Round2(d).IsNegative()
}

// String formats an amount with exactly two digits after the decimal point.
func String(d decimal.Decimal) string {
	return Round2(d).StringFixed(Precision)
}

// AssertNonNegative fails with a validation error when the amount rounds to a
// negative value. The label names the offending field in the error message.
func AssertNonNegative(d decimal.Decimal, label string) error {
	if IsNegative(d) {
		return fmt.Errorf("%w: %s must not be negative, got %s", apperrors.ErrValidation, label, String(d))
	}
	return nil
}
