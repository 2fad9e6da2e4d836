package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/money"
)

func TestFromFloat(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{1200.0, "1200"},
		{1200.005, "1200.01"},
		{0.1, "0.1"},
		{19.999, "20"},
		{-3.335, "-3.34"},
	}

	for _, tt := range tests {
		got := money.FromFloat(tt.input)
		assert.Equal(t, tt.want, got.String(), "input %v", tt.input)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1200", "1200.00"},
		{"1200.5", "1200.50"},
		{"0", "0.00"},
		{"899.999", "900.00"},
		{"-42.1", "-42.10"},
	}

	for _, tt := range tests {
		d := money.MustFromString(tt.input)
		assert.Equal(t, tt.want, money.Format(d), "input %s", tt.input)
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "10", money.FormatQuantity(decimal.NewFromInt(10)))
	assert.Equal(t, "2.5", money.FormatQuantity(money.MustFromString("2.5")))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "20.00", money.FormatRate(decimal.NewFromInt(20)))
	assert.Equal(t, "5.50", money.FormatRate(money.MustFromString("5.5")))
}

func TestRound2(t *testing.T) {
	d := money.MustFromString("10.005")
	assert.Equal(t, "10.01", money.Round2(d).String())
}

func TestMul(t *testing.T) {
	// quantity * unit price, rounded to cents
	got := money.Mul(money.MustFromString("3"), money.MustFromString("33.333"))
	assert.Equal(t, "100.00", money.Format(got))
}

func TestSum(t *testing.T) {
	values := []decimal.Decimal{
		money.MustFromString("100.10"),
		money.MustFromString("200.20"),
		money.MustFromString("0.70"),
	}
	assert.Equal(t, "301.00", money.Format(money.Sum(values)))
	assert.True(t, money.Sum(nil).IsZero())
}

func TestFromString_Invalid(t *testing.T) {
	_, err := money.FromString("not-a-number")
	require.Error(t, err)
}

func TestMustFromString_Panics(t *testing.T) {
	assert.Panics(t, func() {
		money.MustFromString("boom")
	})
}

func TestPredicates(t *testing.T) {
	assert.True(t, money.IsPositive(money.MustFromString("0.01")))
	assert.False(t, money.IsPositive(money.Zero))
	assert.True(t, money.IsNonNegative(money.Zero))
	assert.False(t, money.IsNonNegative(money.MustFromString("-1")))
}
