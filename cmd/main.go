package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/signalbot/internal/api/binance"
	"github.com/Alias1177/signalbot/internal/bootstrap"
	"github.com/Alias1177/signalbot/internal/config"
	"github.com/Alias1177/signalbot/internal/engine"
	"github.com/Alias1177/signalbot/internal/logger"
	"github.com/Alias1177/signalbot/internal/metrics"
	"github.com/Alias1177/signalbot/internal/notify"
	"github.com/Alias1177/signalbot/internal/server"
	"github.com/Alias1177/signalbot/internal/trading/execution"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure logger")
	}
	sink := logger.NewSink(zl, "engine")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := bootstrap.Open(ctx, cfg)
	defer res.Close()

	if cfg.Calibrate {
		b, err := bootstrap.Calibrator(cfg, res).Calibrate(ctx, cfg.FreqtradeURL)
		if err != nil {
			sink.Log("failed to load Freqtrade baseline: " + err.Error())
			b = bootstrap.StoredBaseline(ctx, cfg, res)
		}
		if b != nil {
			cfg.Bot.MarketBias = b.MarketBias
			sink.Log("Freqtrade baseline loaded: " + b.Summary())
		}
	}

	source := binance.NewClient(binance.ClientOptions{
		BaseURL:        cfg.HTTP.BinanceBaseURL,
		RequestTimeout: cfg.RequestTimeoutDuration(),
		RequestsPerSec: cfg.HTTP.RequestsPerSec,
	})

	var live execution.Executor
	if cfg.Kafka.Enabled {
		writer, err := execution.NewKafkaWriter(execution.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: 10 * time.Second,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid Kafka configuration")
		}
		publisher := execution.NewKafkaPublisher(writer, 10*time.Second, sink)
		defer publisher.Close()
		live = publisher
	}

	var notifiers []execution.Executor
	if cfg.Telegram.Enabled {
		tg, err := notify.NewTelegramBot(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Error().Err(err).Msg("Telegram unavailable, notifications disabled")
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []engine.Option{engine.WithRecorder(metrics.New(reg))}
	serverOpts := []server.Option{server.WithGatherer(reg)}
	if res.DB != nil {
		opts = append(opts, engine.WithJournal(res.DB))
		serverOpts = append(serverOpts, server.WithSignalHistory(res.DB))
	}

	eng := engine.New(cfg.Bot, source, sink, execution.NewRouter(sink, live, notifiers...), opts...)

	var srv *server.Server
	if cfg.HTTP.Addr != "" {
		srv = server.New(cfg.HTTP.Addr, eng, serverOpts...)
		srv.Start()
	}

	log.Info().
		Str("symbol", cfg.Bot.Symbol).
		Str("interval", cfg.Bot.Interval).
		Float64("buy_threshold", cfg.Bot.BuyThreshold).
		Float64("market_bias", cfg.Bot.MarketBias).
		Bool("dry_run", cfg.Bot.DryRun).
		Msg("Starting signal bot")

	eng.Start()
	engine.NewRunner(eng, cfg.PollInterval(), sink).Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown failed")
		}
	}
}
