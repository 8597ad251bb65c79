package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Alias1177/signalbot/internal/model"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Bot          model.BotConfig `yaml:"bot"`
	Calibrate    bool            `yaml:"calibrate" default:"false"`
	FreqtradeURL string          `yaml:"freqtrade_url" validate:"omitempty,url"`
	Log          LogConfig       `yaml:"log"`
	HTTP         HTTPConfig      `yaml:"http"`
	Database     DatabaseConfig  `yaml:"database"`
	Redis        RedisConfig     `yaml:"redis"`
	Kafka        KafkaConfig     `yaml:"kafka"`
	Telegram     TelegramConfig  `yaml:"telegram"`
}

// LogConfig selects the zerolog level and output.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
}

// HTTPConfig covers outbound requests and the status server.
type HTTPConfig struct {
	Addr           string `yaml:"addr" default:":8080"`
	RequestTimeout int    `yaml:"request_timeout" default:"10" validate:"gt=0"` // seconds
	RequestsPerSec int    `yaml:"requests_per_sec" default:"5" validate:"gt=0"`
	BinanceBaseURL string `yaml:"binance_base_url" default:"https://api.binance.com" validate:"url"`
}

// DatabaseConfig holds PostgreSQL settings for the signal journal.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled" default:"false"`
	Host     string `yaml:"host" default:"localhost" validate:"required_if=Enabled true"`
	Port     string `yaml:"port" default:"5432"`
	User     string `yaml:"user" default:"postgres" validate:"required_if=Enabled true"`
	Password string `yaml:"password"`
	Name     string `yaml:"name" default:"signalbot" validate:"required_if=Enabled true"`
	SSLMode  string `yaml:"ssl_mode" default:"disable"`
}

// RedisConfig holds the baseline cache settings.
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled" default:"false"`
	Addr       string `yaml:"addr" default:"localhost:6379" validate:"required_if=Enabled true"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db" default:"0" validate:"gte=0"`
	Prefix     string `yaml:"prefix" default:"signalbot"`
	TTLMinutes int    `yaml:"ttl_minutes" default:"60" validate:"gt=0"`
}

// KafkaConfig holds the live trade intent producer settings.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" default:"false"`
	Brokers []string `yaml:"brokers" default:"[\"localhost:9092\"]" validate:"required_if=Enabled true"`
	Topic   string   `yaml:"topic" default:"signalbot.trade-intents" validate:"required_if=Enabled true"`
}

// TelegramConfig holds the buy notification settings.
type TelegramConfig struct {
	Enabled bool   `yaml:"enabled" default:"false"`
	Token   string `yaml:"token" validate:"required_if=Enabled true"`
	ChatID  int64  `yaml:"chat_id" validate:"required_if=Enabled true"`
}

var validate = validator.New()

// Load builds the configuration: struct defaults, then the YAML file named
// by CONFIG_FILE (if any), then .env and environment variables.
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg)
	cfg.Bot.Symbol = strings.ToUpper(strings.TrimSpace(cfg.Bot.Symbol))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Bot.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// PollInterval is the delay between analysis cycles.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Bot.PollSeconds) * time.Second
}

// RequestTimeoutDuration is the per-request timeout for outbound HTTP.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.HTTP.RequestTimeout) * time.Second
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Bot.Symbol = getEnvWithDefault("SYMBOL", cfg.Bot.Symbol)
	cfg.Bot.Interval = getEnvWithDefault("INTERVAL", cfg.Bot.Interval)
	cfg.Bot.CandleLimit = getEnvIntWithDefault("CANDLE_LIMIT", cfg.Bot.CandleLimit)
	cfg.Bot.BuyThreshold = getEnvFloatWithDefault("BUY_THRESHOLD", cfg.Bot.BuyThreshold)
	cfg.Bot.PollSeconds = getEnvIntWithDefault("POLL_SECONDS", cfg.Bot.PollSeconds)
	cfg.Bot.TradeAmount = getEnvFloatWithDefault("TRADE_AMOUNT", cfg.Bot.TradeAmount)
	cfg.Bot.DryRun = getEnvBoolWithDefault("DRY_RUN", cfg.Bot.DryRun)
	cfg.Bot.MaxRuntimeMinutes = getEnvIntWithDefault("MAX_RUNTIME_MINUTES", cfg.Bot.MaxRuntimeMinutes)
	cfg.Bot.MarketBias = getEnvFloatWithDefault("MARKET_BIAS", cfg.Bot.MarketBias)

	cfg.Calibrate = getEnvBoolWithDefault("CALIBRATE", cfg.Calibrate)
	cfg.FreqtradeURL = getEnvWithDefault("FREQTRADE_URL", cfg.FreqtradeURL)

	cfg.Log.Level = getEnvWithDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvWithDefault("LOG_FORMAT", cfg.Log.Format)

	cfg.HTTP.Addr = getEnvWithDefault("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", cfg.HTTP.RequestTimeout)
	cfg.HTTP.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", cfg.HTTP.RequestsPerSec)
	cfg.HTTP.BinanceBaseURL = getEnvWithDefault("BINANCE_BASE_URL", cfg.HTTP.BinanceBaseURL)

	cfg.Database.Enabled = getEnvBoolWithDefault("DB_ENABLED", cfg.Database.Enabled)
	cfg.Database.Host = getEnvWithDefault("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvWithDefault("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnvWithDefault("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnvWithDefault("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnvWithDefault("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = getEnvWithDefault("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.Redis.Enabled = getEnvBoolWithDefault("REDIS_ENABLED", cfg.Redis.Enabled)
	cfg.Redis.Addr = getEnvWithDefault("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnvWithDefault("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvIntWithDefault("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Prefix = getEnvWithDefault("REDIS_PREFIX", cfg.Redis.Prefix)
	cfg.Redis.TTLMinutes = getEnvIntWithDefault("REDIS_TTL_MINUTES", cfg.Redis.TTLMinutes)

	cfg.Kafka.Enabled = getEnvBoolWithDefault("KAFKA_ENABLED", cfg.Kafka.Enabled)
	cfg.Kafka.Brokers = getEnvListWithDefault("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.Topic = getEnvWithDefault("KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.Telegram.Enabled = getEnvBoolWithDefault("TELEGRAM_ENABLED", cfg.Telegram.Enabled)
	cfg.Telegram.Token = getEnvWithDefault("TELEGRAM_BOT_TOKEN", cfg.Telegram.Token)
	cfg.Telegram.ChatID = getEnvInt64WithDefault("TELEGRAM_CHAT_ID", cfg.Telegram.ChatID)
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric environment value")
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvListWithDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
