package baseline

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/signalbot/internal/model"
)

// TradeLoader loads historical trades from a URL.
type TradeLoader interface {
	LoadTrades(ctx context.Context, url string) ([]model.TradeMetric, error)
}

// Cache keeps computed baselines between runs.
type Cache interface {
	GetBaseline(ctx context.Context, key string) (*model.FreqtradeBaseline, bool, error)
	SetBaseline(ctx context.Context, key string, b *model.FreqtradeBaseline, ttl time.Duration) error
}

// Store records every computed baseline.
type Store interface {
	SaveBaseline(ctx context.Context, source string, b *model.FreqtradeBaseline) error
}

// CalibratorOption configures a Calibrator.
type CalibratorOption func(*Calibrator)

// WithCache serves baselines from cache for ttl.
func WithCache(cache Cache, ttl time.Duration) CalibratorOption {
	return func(c *Calibrator) {
		c.cache = cache
		c.ttl = ttl
	}
}

// WithStore persists every freshly built baseline.
func WithStore(store Store) CalibratorOption {
	return func(c *Calibrator) {
		c.store = store
	}
}

// Calibrator runs the load, build, cache and store steps.
// Cache and store failures are logged and never fail calibration.
type Calibrator struct {
	loader TradeLoader
	cache  Cache
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCalibrator creates a calibrator reading trades from loader.
func NewCalibrator(loader TradeLoader, opts ...CalibratorOption) *Calibrator {
	c := &Calibrator{
		loader: loader,
		ttl:    time.Hour,
		logger: log.With().Str("component", "calibrator").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calibrate returns the baseline for the dataset at url.
func (c *Calibrator) Calibrate(ctx context.Context, url string) (*model.FreqtradeBaseline, error) {
	if url == "" {
		url = DefaultTradesURL
	}

	if c.cache != nil {
		cached, ok, err := c.cache.GetBaseline(ctx, url)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Baseline cache read failed")
		} else if ok {
			c.logger.Info().Str("url", url).Msg("Using cached baseline")
			return cached, nil
		}
	}

	trades, err := c.loader.LoadTrades(ctx, url)
	if err != nil {
		return nil, err
	}

	b, err := Build(trades)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SetBaseline(ctx, url, b, c.ttl); err != nil {
			c.logger.Warn().Err(err).Msg("Baseline cache write failed")
		}
	}
	if c.store != nil {
		if err := c.store.SaveBaseline(ctx, url, b); err != nil {
			c.logger.Warn().Err(err).Msg("Baseline store failed")
		}
	}

	return b, nil
}
