package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// MinCandles is the shortest window the scorer accepts.
	MinCandles = 30
	// MaxMarketBias bounds the calibration bias in both directions.
	MaxMarketBias = 0.15
)

var validate = validator.New()

// BotConfig holds the settings of one engine run.
type BotConfig struct {
	Symbol            string  `json:"symbol" yaml:"symbol" default:"BTCUSDT" validate:"required"`
	Interval          string  `json:"interval" yaml:"interval" default:"5m" validate:"required"`
	CandleLimit       int     `json:"candle_limit" yaml:"candle_limit" default:"200" validate:"gte=30,lte=1000"`
	BuyThreshold      float64 `json:"buy_threshold" yaml:"buy_threshold" default:"0.62" validate:"gte=0,lte=1"`
	PollSeconds       int     `json:"poll_seconds" yaml:"poll_seconds" default:"30" validate:"gt=0"`
	TradeAmount       float64 `json:"trade_amount" yaml:"trade_amount" default:"50" validate:"gt=0"`
	DryRun            bool    `json:"dry_run" yaml:"dry_run" default:"true"`
	MaxRuntimeMinutes int     `json:"max_runtime_minutes" yaml:"max_runtime_minutes" default:"0" validate:"gte=0"`
	MarketBias        float64 `json:"market_bias" yaml:"market_bias" default:"0" validate:"gte=-0.15,lte=0.15"`
}

// Validate checks the configured ranges.
func (c BotConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(errs))
			for _, fe := range errs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("invalid bot config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid bot config: %w", err)
	}
	return nil
}

// ClampBias limits v to [-MaxMarketBias, MaxMarketBias].
func ClampBias(v float64) float64 {
	if v > MaxMarketBias {
		return MaxMarketBias
	}
	if v < -MaxMarketBias {
		return -MaxMarketBias
	}
	return v
}
