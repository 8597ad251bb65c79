package indicators

const DefaultRSIPeriod = 14

// RSI calculates the relative strength index from plain averages of the most
// recent period gains and losses (no Wilder smoothing).
func RSI(values []float64, period int) float64 {
	if period < 1 {
		period = DefaultRSIPeriod
	}
	if len(values) < 2 {
		return 50.0 // neutral when there is nothing to compare
	}

	gains := make([]float64, 0, len(values)-1)
	losses := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	avgGain := Mean(Tail(gains, period))
	avgLoss := Mean(Tail(losses, period))
	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}
