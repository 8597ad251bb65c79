// Package bootstrap builds the shared runtime dependencies of the binaries
// from a loaded configuration.
package bootstrap

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/signalbot/internal/cache"
	"github.com/Alias1177/signalbot/internal/config"
	"github.com/Alias1177/signalbot/internal/database"
	"github.com/Alias1177/signalbot/internal/model"
	httpClient "github.com/Alias1177/signalbot/internal/platform/http"
	"github.com/Alias1177/signalbot/internal/trading/baseline"
)

// Resources holds optional backends. Nil fields are disabled.
type Resources struct {
	DB    *database.DB
	Cache *cache.RedisCache
}

// Open connects the backends enabled in cfg. A backend that cannot be
// reached is logged and left disabled.
func Open(ctx context.Context, cfg *config.Config) *Resources {
	res := &Resources{}

	if cfg.Database.Enabled {
		db, err := database.New(ctx, database.ConnectionParams{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			log.Error().Err(err).Msg("Database unavailable, signal journal disabled")
		} else {
			res.DB = db
		}
	}

	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			log.Error().Err(err).Msg("Redis unavailable, baseline cache disabled")
		} else {
			res.Cache = rc
		}
	}

	return res
}

// Close releases every open backend.
func (r *Resources) Close() {
	if r.DB != nil {
		if err := r.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis")
		}
	}
}

// HTTPClient builds the rate-limited retrying client used for data sources.
func HTTPClient(cfg *config.Config) *httpClient.Client {
	return httpClient.NewClient(httpClient.ClientOptions{
		Timeout:        cfg.RequestTimeoutDuration(),
		RequestsPerSec: cfg.HTTP.RequestsPerSec,
	})
}

// Calibrator wires the Freqtrade source with whichever of cache and store
// are available.
func Calibrator(cfg *config.Config, res *Resources) *baseline.Calibrator {
	var opts []baseline.CalibratorOption
	if res.Cache != nil {
		opts = append(opts, baseline.WithCache(res.Cache, time.Duration(cfg.Redis.TTLMinutes)*time.Minute))
	}
	if res.DB != nil {
		opts = append(opts, baseline.WithStore(res.DB))
	}
	return baseline.NewCalibrator(baseline.NewSource(HTTPClient(cfg)), opts...)
}

// StoredBaseline returns the last baseline persisted for the configured
// dataset, or nil when there is none or no database.
func StoredBaseline(ctx context.Context, cfg *config.Config, res *Resources) *model.FreqtradeBaseline {
	if res.DB == nil {
		return nil
	}
	source := cfg.FreqtradeURL
	if source == "" {
		source = baseline.DefaultTradesURL
	}
	b, err := res.DB.LatestBaseline(ctx, source)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read stored baseline")
		return nil
	}
	if b != nil {
		log.Info().Str("source", source).Msg("Using stored baseline")
	}
	return b
}
