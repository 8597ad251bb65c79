package model

// IndicatorSnapshot keeps the raw values a prediction was scored from.
type IndicatorSnapshot struct {
	EMAFast         float64 `json:"ema_fast"`
	EMASlow         float64 `json:"ema_slow"`
	RSI             float64 `json:"rsi"`
	VolumeRecent    float64 `json:"volume_recent"`
	VolumeBase      float64 `json:"volume_base"`
	Momentum        float64 `json:"momentum"`
	BaseProbability float64 `json:"base_probability"`
}

// PredictionResult stores the outcome of a single evaluation.
// ProbabilityUp already includes the market bias and is not clamped to [0,1].
type PredictionResult struct {
	ProbabilityUp float64           `json:"probability_up"`
	ShouldBuy     bool              `json:"should_buy"`
	Details       string            `json:"details"`
	Indicators    IndicatorSnapshot `json:"indicators"`
}
