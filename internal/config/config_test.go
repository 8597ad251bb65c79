package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	bot := cfg.Bot
	if bot.Symbol != "BTCUSDT" || bot.Interval != "5m" || bot.CandleLimit != 200 {
		t.Errorf("unexpected market defaults %+v", bot)
	}
	if bot.BuyThreshold != 0.62 || bot.PollSeconds != 30 || bot.TradeAmount != 50 {
		t.Errorf("unexpected trading defaults %+v", bot)
	}
	if !bot.DryRun || bot.MaxRuntimeMinutes != 0 || bot.MarketBias != 0 {
		t.Errorf("unexpected safety defaults %+v", bot)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("unexpected log defaults %+v", cfg.Log)
	}
	if cfg.HTTP.BinanceBaseURL != "https://api.binance.com" {
		t.Errorf("BinanceBaseURL = %q", cfg.HTTP.BinanceBaseURL)
	}
	if len(cfg.Kafka.Brokers) != 1 || cfg.Kafka.Brokers[0] != "localhost:9092" {
		t.Errorf("Kafka brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.PollInterval() != 30*time.Second {
		t.Errorf("PollInterval() = %v", cfg.PollInterval())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SYMBOL", " ethusdt ")
	t.Setenv("INTERVAL", "1m")
	t.Setenv("CANDLE_LIMIT", "120")
	t.Setenv("BUY_THRESHOLD", "0.7")
	t.Setenv("POLL_SECONDS", "10")
	t.Setenv("TRADE_AMOUNT", "25.5")
	t.Setenv("DRY_RUN", "false")
	t.Setenv("MAX_RUNTIME_MINUTES", "90")
	t.Setenv("MARKET_BIAS", "-0.05")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("REQUEST_TIMEOUT", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	bot := cfg.Bot
	if bot.Symbol != "ETHUSDT" {
		t.Errorf("Symbol = %q, want ETHUSDT", bot.Symbol)
	}
	if bot.Interval != "1m" || bot.CandleLimit != 120 || bot.BuyThreshold != 0.7 {
		t.Errorf("unexpected overrides %+v", bot)
	}
	if bot.PollSeconds != 10 || bot.TradeAmount != 25.5 || bot.DryRun {
		t.Errorf("unexpected overrides %+v", bot)
	}
	if bot.MaxRuntimeMinutes != 90 || bot.MarketBias != -0.05 {
		t.Errorf("unexpected overrides %+v", bot)
	}
	if strings.Join(cfg.Kafka.Brokers, ",") != "k1:9092,k2:9092" {
		t.Errorf("Kafka brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.RequestTimeoutDuration() != 15*time.Second {
		t.Errorf("RequestTimeoutDuration() = %v", cfg.RequestTimeoutDuration())
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signalbot.yaml")
	content := `
bot:
  symbol: SOLUSDT
  buy_threshold: 0.55
  dry_run: false
log:
  format: json
redis:
  enabled: true
  addr: cache:6379
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("BUY_THRESHOLD", "0.8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Bot.Symbol != "SOLUSDT" {
		t.Errorf("Symbol = %q, want SOLUSDT", cfg.Bot.Symbol)
	}
	if cfg.Bot.BuyThreshold != 0.8 {
		t.Errorf("BuyThreshold = %v, env should win over file", cfg.Bot.BuyThreshold)
	}
	if cfg.Bot.DryRun {
		t.Error("DryRun should come from file")
	}
	if cfg.Bot.CandleLimit != 200 {
		t.Errorf("CandleLimit = %d, default should survive partial file", cfg.Bot.CandleLimit)
	}
	if cfg.Log.Format != "json" || !cfg.Redis.Enabled || cfg.Redis.Addr != "cache:6379" {
		t.Errorf("unexpected file sections log=%+v redis=%+v", cfg.Log, cfg.Redis)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "threshold above one", env: map[string]string{"BUY_THRESHOLD": "1.5"}, wantErr: "BuyThreshold"},
		{name: "too few candles", env: map[string]string{"CANDLE_LIMIT": "10"}, wantErr: "CandleLimit"},
		{name: "bias out of range", env: map[string]string{"MARKET_BIAS": "0.3"}, wantErr: "MarketBias"},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}, wantErr: "Level"},
		{name: "telegram without token", env: map[string]string{"TELEGRAM_ENABLED": "true"}, wantErr: "Token"},
		{name: "zero poll", env: map[string]string{"POLL_SECONDS": "0"}, wantErr: "PollSeconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestGetEnvBoolWithDefault(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{value: "", def: true, want: true},
		{value: "true", def: false, want: true},
		{value: "1", def: false, want: true},
		{value: "yes", def: false, want: true},
		{value: "false", def: true, want: false},
		{value: "0", def: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("SIGNALBOT_TEST_BOOL", tt.value)
			if got := getEnvBoolWithDefault("SIGNALBOT_TEST_BOOL", tt.def); got != tt.want {
				t.Errorf("getEnvBoolWithDefault(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
