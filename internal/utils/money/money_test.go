package money_test

import (
	"testing"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRound2_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "10.13", money.String(dec("10.125")))
	assert.Equal(t, "-10.13", money.String(dec("-10.125")))
	assert.Equal(t, "0.10", money.String(dec("0.1")))
	assert.Equal(t, "2.00", money.String(dec("1.995")))
}

func TestSum_RoundsAtTheBoundary(t *testing.T) {
	// Three thirds of a cent accumulate to a clean total after rounding.
	total := money.Sum(dec("0.333"), dec("0.333"), dec("0.334"))
	assert.Equal(t, "1.00", money.String(total))
}

func TestSum_WorkedExample(t *testing.T) {
	debits := money.Sum(dec("120"), dec("10.50"))
	credits := money.Sum(dec("120"), dec("10.50"))
	assert.Equal(t, "130.50", money.String(debits))
	assert.Equal(t, "130.50", money.String(credits))
	assert.True(t, money.Equal(debits, credits))
}

func TestEqual_IgnoresSubCentDrift(t *testing.T) {
	assert.True(t, money.Equal(dec("100.004"), dec("100.00")))
	assert.False(t, money.Equal(dec("100.005"), dec("100.00")))
}

func TestPredicates(t *testing.T) {
	assert.True(t, money.IsPositive(dec("0.01")))
	assert.False(t, money.IsPositive(dec("0.004"))) // rounds to zero
	assert.True(t, money.IsZero(dec("0.004")))
	assert.True(t, money.IsNegative(dec("-0.01")))
	assert.False(t, money.IsNegative(dec("-0.004")))
}

func TestAssertNonNegative(t *testing.T) {
	require.NoError(t, money.AssertNonNegative(dec("0"), "amount"))
	require.NoError(t, money.AssertNonNegative(dec("12.34"), "amount"))
	// A value that only rounds negative past two decimals is fine.
	require.NoError(t, money.AssertNonNegative(dec("-0.004"), "amount"))

	err := money.AssertNonNegative(dec("-0.01"), "debit")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "debit")
}
