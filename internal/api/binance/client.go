package binance

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	httpClient "github.com/Alias1177/signalbot/internal/platform/http"
	"github.com/Alias1177/signalbot/internal/model"
)

// DefaultBaseURL is the public Binance spot REST endpoint.
const DefaultBaseURL = "https://api.binance.com"

const klineFields = 6

// Client is the Binance klines API client
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Binance client
type ClientOptions struct {
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new Binance API client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
	}

	// Apply defaults if not set
	if httpOpts.Timeout == 0 {
		httpOpts.Timeout = 15 * time.Second
	}
	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    strings.TrimRight(options.BaseURL, "/"),
		httpClient: httpClient.NewClient(httpOpts),
		logger:     log.With().Str("component", "binance_client").Logger(),
	}
}

// FetchCandles fetches the most recent candles, oldest first.
func (c *Client) FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))
	endpoint := c.baseURL + "/api/v3/klines?" + params.Encode()

	c.logger.Debug().Str("url", endpoint).Msg("Fetching candles")

	body, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, &model.FetchError{Source: "binance", Err: err}
	}

	candles, err := ParseKlines(body)
	if err != nil {
		c.logger.Error().Err(err).Str("response", truncate(body, 256)).Msg("Error parsing klines")
		return nil, &model.FetchError{Source: "binance", Err: err}
	}

	c.logger.Debug().Int("count", len(candles)).Msg("Fetched candles")
	return candles, nil
}

// ParseKlines decodes a klines payload: an array of
// [openTime, open, high, low, close, volume, ...] rows whose numeric
// fields may be JSON numbers or strings.
func ParseKlines(body []byte) ([]model.Candle, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("klines: invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("klines: expected array, got %s", root.Type)
	}

	rows := root.Array()
	candles := make([]model.Candle, 0, len(rows))
	for i, row := range rows {
		fields := row.Array()
		if !row.IsArray() || len(fields) < klineFields {
			return nil, fmt.Errorf("klines: row %d: expected %d fields", i, klineFields)
		}

		values := make([]float64, klineFields)
		for j := 0; j < klineFields; j++ {
			v, err := number(fields[j])
			if err != nil {
				return nil, fmt.Errorf("klines: row %d field %d: %w", i, j, err)
			}
			values[j] = v
		}

		candles = append(candles, model.Candle{
			OpenTime: int64(values[0]),
			Open:     values[1],
			High:     values[2],
			Low:      values[3],
			Close:    values[4],
			Volume:   values[5],
		})
	}

	return candles, nil
}

func number(r gjson.Result) (float64, error) {
	switch r.Type {
	case gjson.Number:
		return r.Num, nil
	case gjson.String:
		return strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
	default:
		return 0, fmt.Errorf("not a number: %s", r.Raw)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
