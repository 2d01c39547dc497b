package number

import (
	"github.com/shopspring/decimal"
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// DivTrunc divides a by b and truncates the quotient toward zero.
// Returns zero when b is zero.
func DivTrunc(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}

	q, _ := a.QuoRem(b, 0)
	return q
}

// IsIntegral reports whether d has no fractional part. Amounts are kept in
// the asset's smallest unit, so every stored value must satisfy this.
func IsIntegral(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}
