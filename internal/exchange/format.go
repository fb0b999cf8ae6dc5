package exchange

import "fmt"

// FormatUSD converts an amount in base currency to a display string using the
// given USD-per-base rate. Pure function, no I/O.
func FormatUSD(baseAmount, rate float64) string {
	return fmt.Sprintf("$%.2f", baseAmount*rate)
}
