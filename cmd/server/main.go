package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/renggafirmandika/de-datastreaming/internal/api"
	"github.com/renggafirmandika/de-datastreaming/internal/bucket"
	"github.com/renggafirmandika/de-datastreaming/internal/config"
	"github.com/renggafirmandika/de-datastreaming/internal/engine"
	"github.com/renggafirmandika/de-datastreaming/internal/ingest"
	"github.com/renggafirmandika/de-datastreaming/internal/instrumentation"
	"github.com/renggafirmandika/de-datastreaming/internal/market"
	"github.com/renggafirmandika/de-datastreaming/internal/metadata"
	"github.com/renggafirmandika/de-datastreaming/internal/store"
	"github.com/renggafirmandika/de-datastreaming/internal/transport"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("integrator_service_starting",
		"redis_url", cfg.RedisURL,
		"facility_stream", cfg.FacilityStreamKey,
		"market_stream", cfg.MarketStreamKey,
		"bucket_minutes", cfg.BucketMinutes,
		"drain_interval_sec", cfg.DrainIntervalSec,
		"retention_buckets", cfg.RetentionBuckets,
	)

	// Static facility metadata, loaded once, read-only afterwards.
	facilities, err := metadata.Load(cfg.MetadataDBPath, logger)
	if err != nil {
		logger.Error("failed to load facility metadata", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Owned state: constructed here, passed by reference, never ambient.
	facilityQueue := ingest.NewQueue()
	marketQueue := ingest.NewQueue()
	bucketizer := bucket.New(cfg.BucketWidth)
	index := market.NewIndex(bucketizer.Width())
	stateStore := store.NewStore()
	metrics := instrumentation.NewMetrics()

	eng := engine.New(
		facilityQueue, marketQueue,
		index, stateStore,
		facilities, bucketizer,
		cfg.RetentionBuckets,
		logger, metrics,
	)

	// Prometheus metrics endpoint on its own port.
	go func() {
		addr := fmt.Sprintf(":%d", cfg.PrometheusPort)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("metrics_server_starting", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics_server_failed", "error", err)
		}
	}()

	// One transport consumer per inbound stream, both feeding the
	// queues without ever blocking on the engine.
	hostname, _ := os.Hostname()
	consumers := make([]*transport.Consumer, 0, 2)
	for _, stream := range []struct {
		key   string
		queue *ingest.Queue
	}{
		{cfg.FacilityStreamKey, facilityQueue},
		{cfg.MarketStreamKey, marketQueue},
	} {
		cons, err := transport.New(transport.Config{
			RedisURL:      cfg.RedisURL,
			RedisPassword: cfg.RedisPassword,
			StreamKey:     stream.key,
			ConsumerGroup: cfg.ConsumerGroup,
			ConsumerName:  fmt.Sprintf("integrator-%s", hostname),
		}, stream.queue, logger)
		if err != nil {
			logger.Error("failed to create consumer", "stream_key", stream.key, "error", err)
			os.Exit(1)
		}
		defer cons.Close()
		consumers = append(consumers, cons)
	}

	var wg sync.WaitGroup
	for _, cons := range consumers {
		wg.Add(1)
		go func(c *transport.Consumer) {
			defer wg.Done()
			if err := c.Start(ctx); err != nil && err != context.Canceled {
				logger.Error("consumer_error", "error", err)
			}
		}(cons)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		eng.Run(ctx, cfg.DrainInterval)
	}()

	// Snapshot API for the presentation layer.
	snapshotHandler := api.NewSnapshotHandler(stateStore, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(api.LoggingMiddleware(logger))
	r.Use(api.TimeoutMiddleware(cfg.APITimeout(), logger))

	r.Get("/health", api.HealthCheckHandler())
	r.Get("/snapshot", snapshotHandler.List)
	r.Get("/snapshot/{facilityCode}", snapshotHandler.Get)
	r.Get("/regions", snapshotHandler.Regions)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api_server_listening", "port", cfg.Port, "status", "healthy")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server_error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("integrator_service_running",
		"facilities_known", len(facilities),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.Info("shutdown_signal_received", "signal", sig.String())
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}

	wg.Wait()
	logger.Info("integrator_service_stopped")
}
