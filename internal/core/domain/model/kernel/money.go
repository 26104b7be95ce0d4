package kernel

import (
	"fmt"

	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a value object representing a non-negative monetary amount.
// It wraps a decimal so that prices and order totals are computed without
// floating-point drift. Money is immutable: arithmetic methods return new
// values instead of mutating the receiver.
//
// The zero value of Money is a valid amount of zero, which makes it safe to
// use as an accumulator:
//
//	total := kernel.Money{}
//	for _, item := range items {
//	    total = total.Add(item.TotalPrice())
//	}
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a Money value from a decimal amount.
// Returns an error if the amount is negative.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is negative", amount.String()))
	}
	return Money{amount: amount}, nil
}

// NewMoneyFromString parses a Money value from its decimal string form,
// e.g. "999.99". Returns an error on malformed input or negative amounts.
func NewMoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

// NewMoneyFromFloat creates a Money value from a float64.
// Intended for boundaries where amounts arrive as JSON numbers.
func NewMoneyFromFloat(f float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(f))
}

// Amount returns the underlying decimal value.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Float64 returns the amount as a float64 for serialization boundaries.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// Add returns the sum of two Money values.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// MulInt returns the amount multiplied by an integer factor.
// Used to derive an item's total price from its unit price and quantity.
func (m Money) MulInt(factor int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(factor)))}
}

// IsEqual compares two Money values numerically, ignoring exponent differences
// ("1.5" equals "1.50").
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String returns the decimal string form of the amount.
func (m Money) String() string {
	return m.amount.String()
}
