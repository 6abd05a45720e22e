package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sub_notifier/internal/config"
	"sub_notifier/internal/gateway/pushover"
	"sub_notifier/internal/publisher"
	"sub_notifier/internal/scheduler"
	"sub_notifier/internal/service"
	"sub_notifier/internal/source/merged"
	"sub_notifier/internal/source/pushshift"
	"sub_notifier/internal/source/reddit"
	"sub_notifier/internal/storage/sqlite"
	"sub_notifier/internal/storage/watermark"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	// Open dedup store per configured strategy
	seen, err := openSeenStore(cfg.Dedup)
	if err != nil {
		logger.Error("failed to open dedup store",
			"strategy", cfg.Dedup.Strategy,
			"path", cfg.Dedup.Path,
			"error", err,
		)
		os.Exit(1)
	}
	defer seen.Close()

	src := buildSource(cfg.Source, logger)

	gateway := pushover.New(pushover.Config{
		URL:     cfg.Gateway.URL,
		Token:   cfg.Gateway.Token,
		User:    cfg.Gateway.User,
		Timeout: cfg.Gateway.Timeout,
	}, logger)

	// Optional delivery-event publisher
	var events service.Publisher
	if cfg.Events.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.Events.URL,
			Exchange:   cfg.Events.Exchange,
			RoutingKey: cfg.Events.RoutingKey,
			QueueName:  cfg.Events.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		events = rabbitMQ
	}

	notifyService := service.NewNotifyService(
		src,
		seen,
		gateway,
		events,
		logger,
		cfg.Notify,
		cfg.Source,
	)

	sched := scheduler.New(notifyService, cfg.Notify.Interval, cfg.Notify.CycleTimeout, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting subreddit notifier",
		"source", src.Name(),
		"dedup_strategy", cfg.Dedup.Strategy,
		"interval", cfg.Notify.Interval,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

// seenStore widens the service port with the Close the process owns.
type seenStore interface {
	service.SeenStore
	Close() error
}

func openSeenStore(cfg config.DedupConfig) (seenStore, error) {
	if cfg.Strategy == config.StrategyWatermark {
		return watermark.Open(cfg.Path)
	}
	return sqlite.Open(cfg.Path)
}

func buildSource(cfg config.SourceConfig, logger *slog.Logger) service.Source {
	redditSrc := reddit.New(reddit.Config{
		Subreddit: cfg.Subreddit,
		BaseURL:   cfg.RedditBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
	}, logger)

	if !cfg.MergePushshift {
		return redditSrc
	}

	pushshiftSrc := pushshift.New(pushshift.Config{
		Subreddit: cfg.Subreddit,
		BaseURL:   cfg.PushshiftURL,
		Timeout:   cfg.Timeout,
	}, logger)

	return merged.New(redditSrc, pushshiftSrc, logger)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
