package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Alias1177/signalbot/internal/model"
)

// Recorder implements engine.Recorder using Prometheus.
type Recorder struct {
	ticksTotal    *prometheus.CounterVec
	tickDuration  *prometheus.HistogramVec
	probabilityUp *prometheus.GaugeVec
	indicator     *prometheus.GaugeVec
	tradeIntents  *prometheus.CounterVec
	running       prometheus.Gauge
}

// New creates a recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		ticksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalbot_ticks_total",
				Help: "Evaluation cycles by result",
			},
			[]string{"symbol", "result"},
		),
		tickDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalbot_tick_duration_seconds",
				Help:    "Duration of one evaluation cycle",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"symbol"},
		),
		probabilityUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "signalbot_probability_up",
				Help: "Last scored probability of an upward move, bias included",
			},
			[]string{"symbol"},
		),
		indicator: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "signalbot_indicator_value",
				Help: "Last computed indicator values",
			},
			[]string{"symbol", "indicator"},
		),
		tradeIntents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalbot_trade_intents_total",
				Help: "Confirmed buy signals handed to the executor",
			},
			[]string{"symbol", "mode"},
		),
		running: factory.NewGauge(prometheus.GaugeOpts{
			Name: "signalbot_running",
			Help: "1 while the engine is running",
		}),
	}
}

// ObserveTick records one evaluation cycle.
func (r *Recorder) ObserveTick(symbol string, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.ticksTotal.WithLabelValues(symbol, result).Inc()
	r.tickDuration.WithLabelValues(symbol).Observe(took.Seconds())
}

// ObservePrediction records the latest scores.
func (r *Recorder) ObservePrediction(symbol string, result *model.PredictionResult) {
	r.probabilityUp.WithLabelValues(symbol).Set(result.ProbabilityUp)

	ind := result.Indicators
	r.indicator.WithLabelValues(symbol, "ema_fast").Set(ind.EMAFast)
	r.indicator.WithLabelValues(symbol, "ema_slow").Set(ind.EMASlow)
	r.indicator.WithLabelValues(symbol, "rsi").Set(ind.RSI)
	r.indicator.WithLabelValues(symbol, "volume_recent").Set(ind.VolumeRecent)
	r.indicator.WithLabelValues(symbol, "volume_base").Set(ind.VolumeBase)
	r.indicator.WithLabelValues(symbol, "momentum").Set(ind.Momentum)
}

// ObserveTradeIntent counts a confirmed buy signal.
func (r *Recorder) ObserveTradeIntent(symbol string, dryRun bool) {
	mode := "live"
	if dryRun {
		mode = "dry_run"
	}
	r.tradeIntents.WithLabelValues(symbol, mode).Inc()
}

// SetRunning flips the running gauge.
func (r *Recorder) SetRunning(running bool) {
	if running {
		r.running.Set(1)
		return
	}
	r.running.Set(0)
}
