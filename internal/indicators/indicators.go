// Package indicators implements the technical indicators used by the scorer.
// All functions are pure and operate on oldest-first series.
package indicators

import "errors"

var (
	ErrEmptySeries   = errors.New("indicators: empty series")
	ErrInvalidPeriod = errors.New("indicators: period must be positive")
)

// Mean calculates the simple average of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// Tail returns the last n values, or all of them if there are fewer.
func Tail(values []float64, n int) []float64 {
	if n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}
