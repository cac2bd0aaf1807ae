package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	a := NewMoney(8999, 100)
	b := NewMoneyFromRat(big.NewRat(2550, 100))

	assert.Equal(t, "89.99", a.String())
	assert.Equal(t, "25.50", b.String())
	assert.Equal(t, 1, a.Cmp(b))
	assert.True(t, b.LessThan(a))
	assert.True(t, a.GreaterThan(b))
	assert.True(t, a.HasCents())
	assert.False(t, NewMoney(1, 1000).HasCents())

	r := a.Rat()
	r.SetInt64(0)
	assert.Equal(t, "89.99", a.String())
	assert.Equal(t, "0.00", NewMoneyFromRat(nil).String())
}
