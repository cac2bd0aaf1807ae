package domain

import "math/big"

// Money represents a monetary value with precise decimal arithmetic.
// It uses big.Rat internally to avoid floating-point precision issues.
// Money is immutable - all operations return new instances.
type Money struct {
	amount *big.Rat
}

// NewMoney creates a new Money instance from numerator and denominator.
// For example: NewMoney(1999, 100) represents $19.99
func NewMoney(numerator, denominator int64) *Money {
	if denominator == 0 {
		panic("money: denominator cannot be zero")
	}
	return &Money{
		amount: big.NewRat(numerator, denominator),
	}
}

// NewMoneyFromRat creates Money from an existing big.Rat.
// The rat is copied to ensure immutability.
func NewMoneyFromRat(rat *big.Rat) *Money {
	if rat == nil {
		return &Money{amount: big.NewRat(0, 1)}
	}
	return &Money{
		amount: new(big.Rat).Set(rat),
	}
}

// Cmp compares m and other and returns -1, 0 or +1.
func (m *Money) Cmp(other *Money) int {
	return m.amount.Cmp(other.amount)
}

// GreaterThan returns true if m is greater than other.
func (m *Money) GreaterThan(other *Money) bool {
	return m.amount.Cmp(other.amount) > 0
}

// LessThan returns true if m is less than other.
func (m *Money) LessThan(other *Money) bool {
	return m.amount.Cmp(other.amount) < 0
}

// HasCents reports whether the amount fits in whole cents.
func (m *Money) HasCents() bool {
	return new(big.Rat).Mul(m.amount, big.NewRat(100, 1)).IsInt()
}

// Rat returns a copy of the internal big.Rat.
// The returned value is a copy to maintain immutability.
func (m *Money) Rat() *big.Rat {
	return new(big.Rat).Set(m.amount)
}

// String returns the amount with two decimal places (e.g., "19.99").
func (m *Money) String() string {
	return m.amount.FloatString(2)
}

