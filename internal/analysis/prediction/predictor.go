package prediction

import (
	"fmt"

	"github.com/Alias1177/signalbot/internal/indicators"
	"github.com/Alias1177/signalbot/internal/model"
)

const (
	trendWindow     = 20
	fastEMAPeriod   = 9
	slowEMAPeriod   = 20
	rsiWindow       = 30
	rsiLow          = 45.0
	rsiHigh         = 70.0
	recentVolWindow = 10
	baseVolWindow   = 30
	momentumLag     = 5
)

// Predictor scores the probability of an upward move from four binary
// technical signals and compares it to a buy threshold.
type Predictor struct {
	buyThreshold float64
	marketBias   float64
}

// New creates a predictor. The bias is clamped to ±model.MaxMarketBias.
func New(buyThreshold, marketBias float64) *Predictor {
	return &Predictor{
		buyThreshold: buyThreshold,
		marketBias:   model.ClampBias(marketBias),
	}
}

// BuyThreshold returns the configured threshold.
func (p *Predictor) BuyThreshold() float64 { return p.buyThreshold }

// MarketBias returns the clamped bias added to every score.
func (p *Predictor) MarketBias() float64 { return p.marketBias }

// Predict evaluates aligned close and volume series, most recent value last.
//
// The result probability is the mean of the trend, RSI, volume and momentum
// scores plus the market bias. It is deliberately not clamped to [0,1].
func (p *Predictor) Predict(closes, volumes []float64) (*model.PredictionResult, error) {
	if len(closes) < model.MinCandles || len(volumes) < model.MinCandles {
		return nil, fmt.Errorf("%w: need at least %d candles, got %d closes and %d volumes",
			model.ErrInsufficientData, model.MinCandles, len(closes), len(volumes))
	}
	if len(closes) != len(volumes) {
		return nil, fmt.Errorf("%w: %d closes, %d volumes", model.ErrMisalignedSeries, len(closes), len(volumes))
	}

	// 1. Trend
	trendCloses := indicators.Tail(closes, trendWindow)
	emaFast, err := indicators.EMA(trendCloses, fastEMAPeriod)
	if err != nil {
		return nil, fmt.Errorf("fast EMA: %w", err)
	}
	emaSlow, err := indicators.EMA(trendCloses, slowEMAPeriod)
	if err != nil {
		return nil, fmt.Errorf("slow EMA: %w", err)
	}
	trendScore := boolScore(emaFast > emaSlow)

	// 2. RSI inside the healthy band
	rsi := indicators.RSI(indicators.Tail(closes, rsiWindow), indicators.DefaultRSIPeriod)
	rsiScore := boolScore(rsi >= rsiLow && rsi <= rsiHigh)

	// 3. Volume confirmation
	volRecent := indicators.Mean(indicators.Tail(volumes, recentVolWindow))
	volBase := indicators.Mean(indicators.Tail(volumes, baseVolWindow))
	volumeScore := boolScore(volRecent >= volBase)

	// 4. Short-term momentum
	last := closes[len(closes)-1]
	prev := closes[len(closes)-momentumLag]
	momentum := 0.0
	if prev != 0 {
		momentum = (last - prev) / prev
	}
	momentumScore := boolScore(momentum > 0)

	base := (trendScore + rsiScore + volumeScore + momentumScore) / 4
	probability := base + p.marketBias

	return &model.PredictionResult{
		ProbabilityUp: probability,
		ShouldBuy:     probability >= p.buyThreshold,
		Details: fmt.Sprintf(
			"EMA9=%.2f EMA20=%.2f | RSI=%.2f | VolRec=%.2f VolBase=%.2f | Momentum=%.4f",
			emaFast, emaSlow, rsi, volRecent, volBase, momentum,
		),
		Indicators: model.IndicatorSnapshot{
			EMAFast:         emaFast,
			EMASlow:         emaSlow,
			RSI:             rsi,
			VolumeRecent:    volRecent,
			VolumeBase:      volBase,
			Momentum:        momentum,
			BaseProbability: base,
		},
	}, nil
}

func boolScore(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}
