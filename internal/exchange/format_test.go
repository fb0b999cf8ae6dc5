package exchange

import "testing"

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		base float64
		rate float64
		want string
	}{
		{1000, 0.012, "$12.00"},
		{0, 0.012, "$0.00"},
		{2500, 0.0115, "$28.75"},
		{1, 1, "$1.00"},
	}
	for _, c := range cases {
		if got := FormatUSD(c.base, c.rate); got != c.want {
			t.Errorf("FormatUSD(%v, %v) = %q, want %q", c.base, c.rate, got, c.want)
		}
	}
}
