package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"TrendSentry/internal/binance"
	"TrendSentry/internal/config"
	"TrendSentry/internal/notifier"
	"TrendSentry/internal/recorder"
	"TrendSentry/internal/scanner"
	"TrendSentry/internal/scheduler"
	"TrendSentry/internal/strategy"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	mode, err := strategy.ParseMode(cfg.Scan.Mode)
	if err != nil {
		log.Fatal().Err(err).Msg("rule mode")
	}

	log.Info().Str("mode", string(mode)).Str("interval", cfg.Market.Interval).
		Msg("TrendSentry starting")

	// Market client with endpoint failover and shared pacing
	client := binance.NewClient(binance.ClientConfig{
		Endpoints:  cfg.Market.Endpoints,
		APIKey:     cfg.Market.APIKey,
		APISecret:  cfg.Market.APISecret,
		MaxRetries: cfg.Scan.MaxRetries,
		PaceEvery:  time.Duration(cfg.Scan.PaceMillis) * time.Millisecond,
	})

	sc := scanner.New(client, scanner.Options{
		Interval:    cfg.Market.Interval,
		Mode:        mode,
		Symbols:     cfg.Market.Symbols,
		TopN:        cfg.Market.TopN,
		KlineLimit:  cfg.Scan.KlineLimit,
		Concurrency: cfg.Scan.Concurrency,
	})

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, sc, tn, rec)
	if err := sched.Register(cfg.Scan.Cron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Info().Msg("TrendSentry is running")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	log.Info().Msg("TrendSentry stopped")
}
