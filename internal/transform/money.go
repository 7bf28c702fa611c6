package transform

import "math"

// Round4 rounds a monetary value to 4 decimal places, halves away from zero.
// Idempotent: rounding an already-4-decimal value returns it unchanged.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
