package valueobject

import (
	"github.com/shopspring/decimal"
)

const (
	// MoneyScale is the number of fraction digits a received amount may carry,
	// and the scale installment schedules and late fees are rounded to.
	MoneyScale int32 = 2

	// StorageScale is the scale of every DECIMAL(18,4) column. Derived
	// amounts are rounded to it before they are persisted.
	StorageScale int32 = 4
)

// FitsScale reports whether d has at most scale significant fraction digits
func FitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}

// MaxDecimal returns the larger of a and b
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// SplitEvenly divides total into n parts rounded down to MoneyScale, with the
// last part absorbing the remainder so the parts always sum to total.
func SplitEvenly(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	share := total.Div(decimal.NewFromInt(int64(n))).RoundFloor(MoneyScale)
	parts := make([]decimal.Decimal, n)
	allocated := decimal.Zero
	for i := 0; i < n-1; i++ {
		parts[i] = share
		allocated = allocated.Add(share)
	}
	parts[n-1] = total.Sub(allocated)
	return parts
}
