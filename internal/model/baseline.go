package model

import "fmt"

// TradeMetric is the outcome of one historical trade.
type TradeMetric struct {
	ProfitRatio float64 `json:"profit_ratio"`
}

// FreqtradeBaseline aggregates a set of historical trades.
type FreqtradeBaseline struct {
	TotalTrades    int     `json:"total_trades"`
	WinRate        float64 `json:"win_rate"`
	AvgProfitRatio float64 `json:"avg_profit_ratio"`
	AvgWin         float64 `json:"avg_win"`
	AvgLoss        float64 `json:"avg_loss"`
	Expectancy     float64 `json:"expectancy"`
	MarketBias     float64 `json:"market_bias"`
}

// Summary renders the baseline as a single log line.
func (b FreqtradeBaseline) Summary() string {
	return fmt.Sprintf("trades=%d, winrate=%.2f%%, expectancy=%.4f, bias=%+.3f",
		b.TotalTrades, b.WinRate*100, b.Expectancy, b.MarketBias)
}
