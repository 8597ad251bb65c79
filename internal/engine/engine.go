// Package engine drives the polling bot: fetch candles, score them and
// emit a trade intent when the buy signal is confirmed.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Alias1177/signalbot/internal/analysis/prediction"
	"github.com/Alias1177/signalbot/internal/model"
)

// CandleSource fetches recent candles, oldest first.
type CandleSource interface {
	FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
}

// Logger is a fire-and-forget text sink.
type Logger interface {
	Log(msg string)
}

// LogFunc adapts a function to Logger.
type LogFunc func(msg string)

func (f LogFunc) Log(msg string) { f(msg) }

// TradeExecutor receives buy intents. The engine ignores the outcome.
type TradeExecutor interface {
	Execute(symbol string, amount float64, dryRun bool)
}

// ExecutorFunc adapts a function to TradeExecutor.
type ExecutorFunc func(symbol string, amount float64, dryRun bool)

func (f ExecutorFunc) Execute(symbol string, amount float64, dryRun bool) { f(symbol, amount, dryRun) }

// Recorder observes engine activity, typically for metrics.
type Recorder interface {
	ObserveTick(symbol string, took time.Duration, err error)
	ObservePrediction(symbol string, result *model.PredictionResult)
	ObserveTradeIntent(symbol string, dryRun bool)
	SetRunning(running bool)
}

// Journal persists evaluated signals.
type Journal interface {
	RecordSignal(ctx context.Context, rec model.SignalRecord) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithJournal attaches a signal journal. Journal failures are logged only.
func WithJournal(j Journal) Option {
	return func(e *Engine) { e.journal = j }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Status is a snapshot of the engine run state.
type Status struct {
	Running    bool                    `json:"running"`
	StartedAt  time.Time               `json:"started_at,omitempty"`
	Ticks      int                     `json:"ticks"`
	LastTick   time.Time               `json:"last_tick,omitempty"`
	LastResult *model.PredictionResult `json:"last_result,omitempty"`
	LastError  string                  `json:"last_error,omitempty"`
}

// Engine is the Idle/Running state machine behind the polling loop.
// Tick, Start and Stop are meant to be called from a single goroutine;
// the mutex only makes Status safe to read from elsewhere.
type Engine struct {
	cfg       model.BotConfig
	source    CandleSource
	predictor *prediction.Predictor
	log       Logger
	executor  TradeExecutor
	recorder  Recorder
	journal   Journal
	now       func() time.Time

	mu     sync.RWMutex
	status Status
}

// New creates an idle engine for cfg.
func New(cfg model.BotConfig, source CandleSource, log Logger, executor TradeExecutor, opts ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		source:    source,
		predictor: prediction.New(cfg.BuyThreshold, cfg.MarketBias),
		log:       log,
		executor:  executor,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the run configuration.
func (e *Engine) Config() model.BotConfig { return e.cfg }

// Start records the start time and enters Running. Calling it again resets
// the start time.
func (e *Engine) Start() {
	e.mu.Lock()
	e.status.Running = true
	e.status.StartedAt = e.now()
	e.mu.Unlock()

	e.setRunningMetric(true)
	e.log.Log("bot started")
}

// Stop returns to Idle. It is safe to call when already idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.status.Running = false
	e.mu.Unlock()

	e.setRunningMetric(false)
	e.log.Log("bot stopped")
}

// Running reports whether the engine is in the Running state.
func (e *Engine) Running() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status.Running
}

// Status returns a copy of the current run state.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Tick runs one evaluation cycle. It is a no-op while idle. When the
// maximum runtime has elapsed the engine stops itself without evaluating.
// Fetch and scoring errors are returned as is, without retries.
func (e *Engine) Tick(ctx context.Context) error {
	e.mu.RLock()
	running, startedAt := e.status.Running, e.status.StartedAt
	e.mu.RUnlock()

	if !running {
		return nil
	}

	now := e.now()
	if e.runtimeExceeded(startedAt, now) {
		e.log.Log("max runtime reached, stopping automatically")
		e.Stop()
		return nil
	}

	result, err := e.evaluate(ctx)
	e.finishTick(now, result, err)
	if err != nil {
		return err
	}

	e.log.Log(fmt.Sprintf("[%s] prob_up=%.2f (buy_threshold=%.2f) | %s",
		now.Format("15:04:05"), result.ProbabilityUp, e.cfg.BuyThreshold, result.Details))

	e.recordSignal(ctx, now, result)

	if result.ShouldBuy {
		if e.recorder != nil {
			e.recorder.ObserveTradeIntent(e.cfg.Symbol, e.cfg.DryRun)
		}
		e.executor.Execute(e.cfg.Symbol, e.cfg.TradeAmount, e.cfg.DryRun)
	} else {
		e.log.Log("buy signal not confirmed this cycle")
	}

	return nil
}

func (e *Engine) runtimeExceeded(startedAt, now time.Time) bool {
	if e.cfg.MaxRuntimeMinutes <= 0 || startedAt.IsZero() {
		return false
	}
	limit := time.Duration(e.cfg.MaxRuntimeMinutes) * time.Minute
	return !now.Before(startedAt.Add(limit))
}

func (e *Engine) evaluate(ctx context.Context) (*model.PredictionResult, error) {
	candles, err := e.source.FetchCandles(ctx, e.cfg.Symbol, e.cfg.Interval, e.cfg.CandleLimit)
	if err != nil {
		return nil, err
	}

	result, err := e.predictor.Predict(model.Closes(candles), model.Volumes(candles))
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", e.cfg.Symbol, err)
	}
	return result, nil
}

func (e *Engine) finishTick(at time.Time, result *model.PredictionResult, err error) {
	e.mu.Lock()
	e.status.Ticks++
	e.status.LastTick = at
	if err != nil {
		e.status.LastError = err.Error()
	} else {
		e.status.LastError = ""
		e.status.LastResult = result
	}
	e.mu.Unlock()

	if e.recorder != nil {
		e.recorder.ObserveTick(e.cfg.Symbol, e.now().Sub(at), err)
		if result != nil {
			e.recorder.ObservePrediction(e.cfg.Symbol, result)
		}
	}
}

func (e *Engine) recordSignal(ctx context.Context, at time.Time, result *model.PredictionResult) {
	if e.journal == nil {
		return
	}
	rec := model.SignalRecord{
		Symbol:        e.cfg.Symbol,
		Interval:      e.cfg.Interval,
		EvaluatedAt:   at,
		ProbabilityUp: result.ProbabilityUp,
		BuyThreshold:  e.cfg.BuyThreshold,
		MarketBias:    e.predictor.MarketBias(),
		ShouldBuy:     result.ShouldBuy,
		TradeAmount:   e.cfg.TradeAmount,
		DryRun:        e.cfg.DryRun,
		Details:       result.Details,
		Indicators:    result.Indicators,
	}
	if err := e.journal.RecordSignal(ctx, rec); err != nil {
		e.log.Log("signal journal write failed: " + err.Error())
	}
}

func (e *Engine) setRunningMetric(running bool) {
	if e.recorder != nil {
		e.recorder.SetRunning(running)
	}
}
