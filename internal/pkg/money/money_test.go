package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundCurrency(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"97.505", "97.5"},    // half rounds to even (0 is even)
		{"97.515", "97.52"},   // half rounds to even (2 is even)
		{"97.5049", "97.5"},   // below half rounds down
		{"97.5051", "97.51"},  // above half rounds up
		{"0.125", "0.12"},     // classic banker's case
		{"0.135", "0.14"},     // classic banker's case
		{"-0.125", "-0.12"},   // symmetric for negatives
		{"1000", "1000"},      // integers untouched
		{"37.5", "37.5"},      // already at scale
		{"0.005", "0"},        // half down to even zero
	}

	for _, c := range cases {
		got := RoundCurrency(decimal.RequireFromString(c.input))
		assert.True(t, got.Equal(decimal.RequireFromString(c.want)),
			"RoundCurrency(%s) = %s, want %s", c.input, got, c.want)
	}
}

func TestRoundQuantity(t *testing.T) {
	got := RoundQuantity(decimal.RequireFromString("7.3351"))
	assert.True(t, got.Equal(decimal.RequireFromString("7.34")))

	got = RoundQuantity(decimal.RequireFromString("7.125"))
	assert.True(t, got.Equal(decimal.RequireFromString("7.12")))
}

func TestMin(t *testing.T) {
	a := decimal.RequireFromString("1500.00")
	b := decimal.RequireFromString("1000.00")
	assert.True(t, Min(a, b).Equal(b))
	assert.True(t, Min(b, a).Equal(b))
	assert.True(t, Min(b, b).Equal(b))
}
