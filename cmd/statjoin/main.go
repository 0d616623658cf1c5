package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Vodeneev/statjoin/internal/joiner/joiner"
	"github.com/Vodeneev/statjoin/internal/pkg/cache"
	"github.com/Vodeneev/statjoin/internal/pkg/config"
	"github.com/Vodeneev/statjoin/internal/pkg/health"
	"github.com/Vodeneev/statjoin/internal/pkg/logging"
	"github.com/Vodeneev/statjoin/internal/pkg/performance"
	"github.com/Vodeneev/statjoin/internal/pkg/sources"
	"github.com/Vodeneev/statjoin/internal/pkg/storage"
)

const (
	defaultConfigPath = "configs/production.yaml"
	serviceName       = "statjoin"
)

func main() {
	fmt.Println("Starting stat join service...")

	var configPath string
	var port int

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.IntVar(&port, "port", 0, "HTTP listen port (overrides server.port)")
	flag.Parse()

	fmt.Printf("Loading config from: %s\n", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyEnv(cfg)
	if port > 0 {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if _, err := logging.SetupLogger(&cfg.Logging, serviceName); err != nil {
		log.Printf("Warning: failed to setup logging: %v, continuing with default logger", err)
	} else {
		slog.Info("Logging initialized", "service", serviceName, "level", cfg.Logging.Level)
	}

	if cfg.Odds.APIKey == "" {
		slog.Warn("odds.api_key is empty, odds requests will be rejected upstream")
	}
	odds := sources.NewOddsClient(cfg.Odds.BaseURL, cfg.Odds.APIKey, cfg.Odds.Regions, cfg.Odds.Markets, cfg.Odds.Timeout)

	store, closeCache := newCache(cfg)
	defer closeCache()

	reports := newReportStorage(cfg)
	defer func() {
		if err := reports.Close(); err != nil {
			slog.Error("Error closing report storage", "error", err)
		}
	}()

	var notifier joiner.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		tg, err := joiner.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			slog.Error("Telegram notifier disabled", "error", err)
		} else {
			notifier = tg
			defer tg.Close()
		}
	}

	svc := joiner.NewService(cfg, joiner.Deps{
		Odds:    odds,
		Cache:   store,
		Storage: reports,
		Notify:  notifier,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, stopping service...")
		cancel()
	}()

	addr, err := health.AddrFor(cfg.Server.Port)
	if err != nil {
		log.Fatalf("Invalid server port: %v", err)
	}
	if _, err := health.Run(ctx, addr, serviceName, cfg.Server.ReadHeaderTimeout, svc.RegisterHTTP); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}

	slog.Info("Starting stat join service", "sports", cfg.SportNames())
	if err := svc.Start(ctx); err != nil {
		slog.Error("Service failed", "error", err)
		os.Exit(1)
	}

	performance.GetTracker().PrintSummary()
	slog.Info("Stat join service stopped")
}

// applyEnv lets secrets come from the environment instead of the config file.
func applyEnv(cfg *config.Config) {
	if key := os.Getenv("ODDS_API_KEY"); key != "" {
		cfg.Odds.APIKey = key
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Cache.Backend = "redis"
		cfg.Cache.Redis.Addr = addr
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.BotToken = token
	}
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		if chatID, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.Telegram.ChatID = chatID
		}
	}
}

func newCache(cfg *config.Config) (cache.Store, func()) {
	if cfg.Cache.Backend != "redis" {
		slog.Info("Using in-memory cache", "ttl", cfg.Cache.TTL)
		return cache.NewMemoryStore(), func() {}
	}
	rs, err := cache.NewRedisStore(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB, serviceName+":")
	if err != nil {
		slog.Error("Redis cache unavailable, falling back to memory", "addr", cfg.Cache.Redis.Addr, "error", err)
		return cache.NewMemoryStore(), func() {}
	}
	slog.Info("Using redis cache", "addr", cfg.Cache.Redis.Addr, "ttl", cfg.Cache.TTL)
	return rs, func() { _ = rs.Close() }
}

func newReportStorage(cfg *config.Config) storage.ReportStorage {
	if cfg.Postgres.DSN == "" {
		slog.Info("postgres.dsn not set, keeping reports in memory")
		return storage.NewMemoryReportStorage(0)
	}
	pg, err := storage.NewPostgresReportStorage(&cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL report storage: %v", err)
	}
	slog.Info("PostgreSQL report storage initialized")
	return pg
}
