// Package execution receives buy intents from the engine. Dry-run intents are
// only logged; live intents are handed to a downstream publisher.
package execution

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Logger is a text sink.
type Logger interface {
	Log(msg string)
}

// Executor matches engine.TradeExecutor.
type Executor interface {
	Execute(symbol string, amount float64, dryRun bool)
}

// TradeIntent is a confirmed buy signal as sent downstream.
type TradeIntent struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Side      string          `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
	DryRun    bool            `json:"dry_run"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewTradeIntent builds a buy intent with a fresh ID.
func NewTradeIntent(symbol string, amount float64, dryRun bool) TradeIntent {
	return TradeIntent{
		ID:        uuid.NewString(),
		Symbol:    symbol,
		Side:      "BUY",
		Amount:    decimal.NewFromFloat(amount).Round(8),
		DryRun:    dryRun,
		CreatedAt: time.Now().UTC(),
	}
}

// Simulator logs dry-run buys.
type Simulator struct {
	log Logger
}

// NewSimulator creates a dry-run simulator writing to log.
func NewSimulator(log Logger) *Simulator {
	return &Simulator{log: log}
}

// Execute logs the simulated buy.
func (s *Simulator) Execute(symbol string, amount float64, dryRun bool) {
	s.log.Log(fmt.Sprintf("[DRY-RUN] simulated buy: %s amount %s",
		symbol, decimal.NewFromFloat(amount).StringFixed(2)))
}

// Router sends dry-run intents to the simulator and live intents to the
// live executor. Every intent is also passed to the notifiers.
type Router struct {
	simulator Executor
	live      Executor
	notifiers []Executor
	log       Logger
}

// NewRouter creates a router. live may be nil, in which case live intents
// are logged and dropped.
func NewRouter(log Logger, live Executor, notifiers ...Executor) *Router {
	return &Router{
		simulator: NewSimulator(log),
		live:      live,
		notifiers: notifiers,
		log:       log,
	}
}

// Execute dispatches one intent.
func (r *Router) Execute(symbol string, amount float64, dryRun bool) {
	switch {
	case dryRun:
		r.simulator.Execute(symbol, amount, dryRun)
	case r.live != nil:
		r.live.Execute(symbol, amount, dryRun)
	default:
		r.log.Log(fmt.Sprintf("no live executor configured, buy intent for %s dropped", symbol))
	}

	for _, n := range r.notifiers {
		n.Execute(symbol, amount, dryRun)
	}
}
