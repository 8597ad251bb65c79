package indicators

// EMA calculates the exponential moving average of values.
// The first value seeds the average; every later price is blended in with
// the smoothing factor 2/(period+1).
func EMA(values []float64, period int) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	if period < 1 {
		return 0, ErrInvalidPeriod
	}

	alpha := 2.0 / float64(period+1)
	ema := values[0]
	for _, price := range values[1:] {
		ema = price*alpha + ema*(1-alpha)
	}

	return ema, nil
}
