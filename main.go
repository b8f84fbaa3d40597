package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cruisewatch/config"
	"cruisewatch/internal/detector"
	"cruisewatch/internal/render"
	"cruisewatch/internal/scanner"
	"cruisewatch/logger"
	"cruisewatch/services/cache"
	"cruisewatch/services/notifier"
	"cruisewatch/services/state"
	"cruisewatch/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("policy", cfg.Policy).
		Str("scan_mode", cfg.ScanMode).
		Int("notify_threshold", cfg.NotifyThreshold).
		Dur("scan_interval", cfg.ScanInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	store, err := newStateStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize state store")
	}
	defer store.Close()

	notif, err := newNotifier(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize notifier")
	}
	defer notif.Close()

	var guard cache.Guard
	if cfg.MemcacheAddr != "" {
		guard = cache.NewMemcacheGuard(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	source := render.NewChromeSource(cfg.TargetURL, cfg.ChromeDBAddr, guard)

	agg := scanner.NewAggregator(scanner.Config{
		Selectors: scanner.Selectors{
			CardList:   cfg.CardSelector,
			Title:      cfg.TitleSelectors,
			Price:      cfg.PriceSelectors,
			Date:       cfg.DateSelectors,
			LinkFilter: cfg.LinkFilter,
		},
		Mode:            scanner.ScanMode(cfg.ScanMode),
		PageURL:         cfg.TargetURL,
		BaseURL:         cfg.BaseURL,
		NotifyThreshold: cfg.NotifyThreshold,
		PriceFloor:      cfg.PriceFloor,
		MinTitleLength:  cfg.MinTitleLength,
		NoiseKeywords:   cfg.NoiseKeywords,
		YearBlocklist:   cfg.YearBlocklist,
	})

	det := newDetector(cfg, store)

	w := worker.NewWorker(
		source,
		agg,
		det,
		notif,
		cfg.MaxDealsReported,
		cfg.NotifyThreshold,
		int(cfg.ScanInterval.Minutes()),
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting cruise fare worker")
		workerDone <- w.Start(ctx)
	}()

	// Wait for shutdown signal or worker exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}

// newStateStore builds the configured state backend
func newStateStore(cfg config.Config) (state.Store, error) {
	switch cfg.StateBackend {
	case config.StateBackendSqlite:
		logger.Info("Using sqlite state store at %s", cfg.StateDBPath)
		return state.NewSqliteStore(cfg.StateDBPath)
	default:
		logger.Info("Using file state store at %s", cfg.StateFile)
		return state.NewFileStore(cfg.StateFile), nil
	}
}

// newNotifier assembles a fan-out over every configured sink
func newNotifier(cfg config.Config) (notifier.Notifier, error) {
	var sinks []notifier.Notifier

	if cfg.DiscordWebhookURL != "" {
		sinks = append(sinks, notifier.NewDiscordNotifier(cfg.DiscordWebhookURL))
		logger.Info("Discord webhook notifier enabled")
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notifier.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, tg)
		logger.Info("Telegram notifier enabled")
	}
	if cfg.RedisAddr != "" {
		sinks = append(sinks, notifier.NewStreamNotifier(cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLen))
		logger.Info("Redis stream notifier enabled (stream: %s)", cfg.RedisStream)
	}

	if len(sinks) == 0 {
		logger.Warn("No notification sinks configured; alerts will be logged only")
	}

	return notifier.NewMultiNotifier(sinks...), nil
}

// newDetector builds the configured change-detection policy
func newDetector(cfg config.Config, store state.Store) detector.Detector {
	if cfg.Policy == config.PolicyBest {
		return detector.NewBestDetector(store, cfg.NotifyThreshold)
	}
	return detector.NewSniperDetector(cfg.MaxDealsReported)
}
