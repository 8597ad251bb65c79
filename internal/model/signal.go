package model

import "time"

// SignalRecord is one evaluated tick as written to the signal journal.
type SignalRecord struct {
	Symbol        string            `json:"symbol"`
	Interval      string            `json:"interval"`
	EvaluatedAt   time.Time         `json:"evaluated_at"`
	ProbabilityUp float64           `json:"probability_up"`
	BuyThreshold  float64           `json:"buy_threshold"`
	MarketBias    float64           `json:"market_bias"`
	ShouldBuy     bool              `json:"should_buy"`
	TradeAmount   float64           `json:"trade_amount"`
	DryRun        bool              `json:"dry_run"`
	Details       string            `json:"details"`
	Indicators    IndicatorSnapshot `json:"indicators"`
}
