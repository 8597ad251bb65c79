package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/signalbot/internal/bootstrap"
	"github.com/Alias1177/signalbot/internal/config"
	"github.com/Alias1177/signalbot/internal/logger"
)

func main() {
	url := flag.String("url", "", "Freqtrade backtest results URL (defaults to FREQTRADE_URL or the bundled dataset)")
	asJSON := flag.Bool("json", false, "print the baseline as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if _, err := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := bootstrap.Open(ctx, cfg)
	defer res.Close()

	source := cfg.FreqtradeURL
	if *url != "" {
		source = *url
	}

	b, err := bootstrap.Calibrator(cfg, res).Calibrate(ctx, source)
	if err != nil {
		log.Error().Err(err).Msg("Calibration failed")
		res.Close()
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b); err != nil {
			log.Error().Err(err).Msg("Failed to encode baseline")
		}
		return
	}
	fmt.Println(b.Summary())
	fmt.Printf("MARKET_BIAS=%.6f\n", b.MarketBias)
}
