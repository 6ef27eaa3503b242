package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/flowline-styler/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flowline-styler/internal/adapter/kafka"
	"github.com/couchcryptid/flowline-styler/internal/adapter/tilecache"
	"github.com/couchcryptid/flowline-styler/internal/config"
	"github.com/couchcryptid/flowline-styler/internal/observability"
	"github.com/couchcryptid/flowline-styler/internal/pipeline"
	"github.com/couchcryptid/flowline-styler/internal/raster"
	"github.com/couchcryptid/flowline-styler/internal/style"
	"github.com/jonboulle/clockwork"
)

const subscriptionBuffer = 256

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	preset := style.DefaultPreset()
	if cfg.StylePreset != "" {
		preset, err = style.LoadPreset(cfg.StylePreset)
		if err != nil {
			logger.Error("failed to load style preset", "path", cfg.StylePreset, "error", err)
			os.Exit(1)
		}
		logger.Info("style preset loaded", "path", cfg.StylePreset)
	}

	store, err := style.NewStore(preset, style.WithDropHook(metrics.EventsDropped.Inc))
	if err != nil {
		logger.Error("invalid style preset", "error", err)
		os.Exit(1)
	}

	renderer := raster.NewRenderer(cfg.RenderWorkers)
	tiles := tilecache.NewCachedRenderer(renderer, cfg.TileCacheSize, metrics)
	logger.Info("renderer ready", "workers", cfg.RenderWorkers, "cache_size", cfg.TileCacheSize)

	// Change fan-out goes to Kafka when brokers are configured, otherwise to the log.
	var loader pipeline.BatchLoader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		logger.Info("kafka change fan-out enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		loader = pipeline.NewLogSink(logger)
		logger.Info("kafka change fan-out disabled")
	}

	events, unsubscribe := store.Subscribe(subscriptionBuffer)
	extractor := pipeline.NewSubscriptionExtractor(events, cfg.BatchFlushInterval, clockwork.NewRealClock())
	p := pipeline.New(extractor, pipeline.NewCoalescer(logger), loader, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, store, tiles, p, metrics, logger, cfg.MaxTileBytes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start change pipeline.
	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	unsubscribe()
	select {
	case <-pipelineDone:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
