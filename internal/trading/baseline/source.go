package baseline

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Alias1177/signalbot/internal/platform/http"
	"github.com/Alias1177/signalbot/internal/model"
)

// DefaultTradesURL points at the backtest results shipped with Freqtrade's test data.
const DefaultTradesURL = "https://raw.githubusercontent.com/freqtrade/freqtrade/develop/" +
	"tests/testdata/backtest_results/backtest-result.json"

// Source downloads historical trades over HTTP.
type Source struct {
	client *httpClient.Client
	logger zerolog.Logger
}

// NewSource creates a trade history source on top of client.
func NewSource(client *httpClient.Client) *Source {
	return &Source{
		client: client,
		logger: log.With().Str("component", "freqtrade_source").Logger(),
	}
}

// LoadTrades fetches url and parses the payload into trade metrics.
func (s *Source) LoadTrades(ctx context.Context, url string) ([]model.TradeMetric, error) {
	if url == "" {
		url = DefaultTradesURL
	}

	s.logger.Debug().Str("url", url).Msg("Fetching trade history")

	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, &model.FetchError{Source: "freqtrade", Err: err}
	}

	trades, err := Parse(body)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int("count", len(trades)).Msg("Parsed trade history")
	return trades, nil
}
