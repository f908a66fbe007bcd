package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/sentimeter/config"
	"github.com/spacesedan/sentimeter/internal/api/handler"
	"github.com/spacesedan/sentimeter/internal/api/router"
	"github.com/spacesedan/sentimeter/internal/clients"
	"github.com/spacesedan/sentimeter/internal/db"
	"github.com/spacesedan/sentimeter/internal/logging"
	"github.com/spacesedan/sentimeter/internal/monitoring"
	"github.com/spacesedan/sentimeter/internal/sentiment"
	"github.com/spacesedan/sentimeter/internal/service"
	"github.com/spacesedan/sentimeter/internal/stats"
)

const (
	kafkaInitAttempts = 3
	shutdownTimeout   = 10 * time.Second
)

var newRuntime = func(cfg sentiment.RuntimeConfig) *sentiment.Runtime {
	return sentiment.NewRuntime(cfg)
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		slog.Error("[Main] Service stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run serves until ctx is done. Every resource it opens is released before it returns, on the
// error paths too.
func run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runtime := newRuntime(cfg.Runtime())
	defer func() { _ = runtime.Release() }()

	var analyzerOpts []sentiment.AnalyzerOption
	var cache handler.Pinger
	if cfg.Valkey().Enabled() {
		valkeyClient, err := clients.InitValkey(ctx, cfg.Valkey())
		if err != nil {
			slog.Warn("[Main] Result cache disabled", slog.String("error", err.Error()))
		} else {
			defer valkeyClient.Close()
			analyzerOpts = append(analyzerOpts, sentiment.WithResultCache(valkeyClient))
			cache = valkeyClient
		}
	}
	analyzer := sentiment.NewAnalyzer(runtime, analyzerOpts...)

	opts := service.Options{
		MaxRows:        cfg.BatchMaxRows,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	var database handler.Pinger
	if cfg.Postgres().Enabled() {
		pool, err := db.InitDB(ctx, cfg.Postgres())
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		repo := db.NewAnalysisRepository(pool)
		var publisher service.EventPublisher
		if kafkaPublisher := initKafka(ctx, cfg.Kafka()); kafkaPublisher != nil {
			defer kafkaPublisher.Close()
			publisher = kafkaPublisher
		}

		opts.Persister = service.NewRecorder(repo, publisher)
		opts.Statistics = stats.NewService(repo)
		database = repo
	} else {
		slog.Warn("[Main] DB_HOST not set, analyses will not be persisted")
	}

	svc := service.NewSentimentService(analyzer, opts)

	checks := []monitoring.Check{{
		Name: "model",
		Run:  monitoring.ModelCheck(runtime.Available, sentiment.ErrModelUnavailable),
	}}
	if database != nil {
		checks = append(checks, monitoring.Check{Name: "database", Run: database.Ping})
	}
	if cache != nil {
		checks = append(checks, monitoring.Check{Name: "cache", Run: cache.Ping})
	}
	go monitoring.MonitorHealth(ctx, 0, checks...)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.Setup(
		handler.NewSentimentHandler(svc),
		handler.NewHealthHandler(runtime, database, cache),
	)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("[Main] HTTP server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("[Main] Shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// initKafka returns nil when event publishing is disabled or the broker stays unreachable.
func initKafka(ctx context.Context, cfg clients.KafkaConfig) *clients.KafkaPublisher {
	if !cfg.Enabled() {
		return nil
	}

	for attempt := 1; attempt <= kafkaInitAttempts; attempt++ {
		publisher, err := clients.InitKafkaPublisher(cfg)
		if err == nil {
			return publisher
		}

		slog.Warn("[Main] Kafka init failed, retrying...",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(5 * time.Second):
		}
	}

	slog.Error("[Main] Kafka unavailable, analysis events disabled")
	return nil
}
