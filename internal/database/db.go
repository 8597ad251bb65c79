package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Alias1177/signalbot/internal/model"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the lib/pq connection string.
func (p ConnectionParams) DSN() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, sslMode,
	)
}

// New creates a new database connection
func New(ctx context.Context, params ConnectionParams) (*DB, error) {
	db, err := sql.Open("postgres", params.DSN())
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS signal_journal (
			id BIGSERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			interval TEXT NOT NULL,
			evaluated_at TIMESTAMPTZ NOT NULL,
			probability_up DOUBLE PRECISION NOT NULL,
			buy_threshold DOUBLE PRECISION NOT NULL,
			market_bias DOUBLE PRECISION NOT NULL,
			should_buy BOOLEAN NOT NULL,
			trade_amount NUMERIC(20, 8) NOT NULL,
			dry_run BOOLEAN NOT NULL,
			details TEXT NOT NULL,
			indicators JSONB NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create signal_journal: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS baselines (
			source TEXT PRIMARY KEY,
			total_trades INTEGER NOT NULL,
			win_rate DOUBLE PRECISION NOT NULL,
			avg_profit_ratio DOUBLE PRECISION NOT NULL,
			avg_win DOUBLE PRECISION NOT NULL,
			avg_loss DOUBLE PRECISION NOT NULL,
			expectancy DOUBLE PRECISION NOT NULL,
			market_bias DOUBLE PRECISION NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create baselines: %w", err)
	}

	return nil
}

// RecordSignal appends one evaluated cycle to the journal.
func (db *DB) RecordSignal(ctx context.Context, rec model.SignalRecord) error {
	indicators, err := json.Marshal(rec.Indicators)
	if err != nil {
		return fmt.Errorf("marshal indicators: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO signal_journal (
			symbol, interval, evaluated_at, probability_up, buy_threshold,
			market_bias, should_buy, trade_amount, dry_run, details, indicators
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		rec.Symbol, rec.Interval, rec.EvaluatedAt, rec.ProbabilityUp, rec.BuyThreshold,
		rec.MarketBias, rec.ShouldBuy, decimal.NewFromFloat(rec.TradeAmount).Round(8).String(),
		rec.DryRun, rec.Details, indicators)

	return err
}

// RecentSignals returns the latest journal entries for symbol, newest first.
func (db *DB) RecentSignals(ctx context.Context, symbol string, limit int) ([]model.SignalRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT
			symbol, interval, evaluated_at, probability_up, buy_threshold,
			market_bias, should_buy, trade_amount, dry_run, details, indicators
		FROM signal_journal
		WHERE symbol = $1
		ORDER BY evaluated_at DESC
		LIMIT $2
	`, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.SignalRecord
	for rows.Next() {
		var rec model.SignalRecord
		var amount decimal.Decimal
		var indicators []byte

		if err := rows.Scan(
			&rec.Symbol, &rec.Interval, &rec.EvaluatedAt, &rec.ProbabilityUp, &rec.BuyThreshold,
			&rec.MarketBias, &rec.ShouldBuy, &amount, &rec.DryRun, &rec.Details, &indicators,
		); err != nil {
			return nil, err
		}
		rec.TradeAmount = amount.InexactFloat64()
		if err := json.Unmarshal(indicators, &rec.Indicators); err != nil {
			return nil, fmt.Errorf("decode indicators: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// SaveBaseline upserts the latest calibration for source.
func (db *DB) SaveBaseline(ctx context.Context, source string, b *model.FreqtradeBaseline) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO baselines (
			source, total_trades, win_rate, avg_profit_ratio, avg_win,
			avg_loss, expectancy, market_bias, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (source)
		DO UPDATE SET
			total_trades = EXCLUDED.total_trades,
			win_rate = EXCLUDED.win_rate,
			avg_profit_ratio = EXCLUDED.avg_profit_ratio,
			avg_win = EXCLUDED.avg_win,
			avg_loss = EXCLUDED.avg_loss,
			expectancy = EXCLUDED.expectancy,
			market_bias = EXCLUDED.market_bias,
			updated_at = EXCLUDED.updated_at
	`,
		source, b.TotalTrades, b.WinRate, b.AvgProfitRatio, b.AvgWin,
		b.AvgLoss, b.Expectancy, b.MarketBias, time.Now().UTC())

	return err
}

// LatestBaseline returns the stored calibration for source, or nil if none.
func (db *DB) LatestBaseline(ctx context.Context, source string) (*model.FreqtradeBaseline, error) {
	var b model.FreqtradeBaseline

	err := db.QueryRowContext(ctx, `
		SELECT total_trades, win_rate, avg_profit_ratio, avg_win, avg_loss, expectancy, market_bias
		FROM baselines
		WHERE source = $1
	`, source).Scan(&b.TotalTrades, &b.WinRate, &b.AvgProfitRatio, &b.AvgWin, &b.AvgLoss, &b.Expectancy, &b.MarketBias)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &b, nil
}
