package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"TradeSentinel/internal/collector"
	"TradeSentinel/internal/config"
	"TradeSentinel/internal/lifecycle"
	"TradeSentinel/internal/model"
	"TradeSentinel/internal/notifier"
	"TradeSentinel/internal/recorder"
	"TradeSentinel/internal/risk"
	"TradeSentinel/internal/scheduler"
	"TradeSentinel/internal/strategy"
	"TradeSentinel/internal/structure"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TradeSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.APIKey != "" {
		fetcher = collector.NewTwelveDataFetcher(cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol)
	col.HTF = model.Timeframe(cfg.DataSource.HTF)
	col.LTF = model.Timeframe(cfg.DataSource.LTF)
	col.HTFBars = cfg.DataSource.HTFBars
	col.LTFBars = cfg.DataSource.LTFBars

	// Init signal engine
	detector := structure.New(cfg.StructureConfig())
	sizer := risk.NewSizer(cfg.InstrumentConfig())
	engine := strategy.NewEngine(cfg.StrategyConfig(), detector, sizer)

	// Init lifecycle monitor, restoring checkpointed positions
	monitor := lifecycle.NewMonitor()
	if positions, err := lifecycle.LoadPositions(cfg.Positions.StateFile); err != nil {
		log.Printf("[WARN] load positions: %v", err)
	} else if n := monitor.Restore(positions); n > 0 {
		log.Printf("[INFO] restored %d open positions", n)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
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

	// Init scheduler
	acct := model.Account{Balance: cfg.Account.Balance, Tier: cfg.Account.Tier}
	sched := scheduler.NewScheduler(ctx, col, engine, monitor, tn, rec, acct, cfg.Positions.StateFile)
	sched.NotifyNoSetup = cfg.NotifyNoSetup
	if err := sched.RegisterAll(cfg.Schedule.EvaluateCron, cfg.Schedule.PollCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing evaluation now")
		go sched.RunEvaluateNow()
	}

	log.Println("[INFO] TradeSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TradeSentinel stopped")
}
