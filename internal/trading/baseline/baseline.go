// Package baseline turns historical trade outcomes into a bounded market bias.
package baseline

import "github.com/Alias1177/signalbot/internal/model"

const (
	winRateWeight    = 0.4
	expectancyWeight = 2.0
)

// Build aggregates trades into a baseline.
//
// market bias = clamp((winRate-0.5)*0.4 + expectancy*2, ±0.15), so no dataset
// can move the scorer by more than 0.15.
func Build(trades []model.TradeMetric) (*model.FreqtradeBaseline, error) {
	if len(trades) == 0 {
		return nil, model.ErrNoValidTrades
	}

	var wins, losses int
	var sum, winSum, lossSum float64
	for _, t := range trades {
		sum += t.ProfitRatio
		if t.ProfitRatio > 0 {
			wins++
			winSum += t.ProfitRatio
		} else {
			losses++
			lossSum += t.ProfitRatio
		}
	}

	total := len(trades)
	winRate := float64(wins) / float64(total)

	// Guard against division by zero when one side is empty
	avgWin := winSum / float64(max(wins, 1))
	avgLoss := lossSum / float64(max(losses, 1))
	expectancy := winRate*avgWin + (1-winRate)*avgLoss

	return &model.FreqtradeBaseline{
		TotalTrades:    total,
		WinRate:        winRate,
		AvgProfitRatio: sum / float64(total),
		AvgWin:         avgWin,
		AvgLoss:        avgLoss,
		Expectancy:     expectancy,
		MarketBias:     model.ClampBias((winRate-0.5)*winRateWeight + expectancy*expectancyWeight),
	}, nil
}
