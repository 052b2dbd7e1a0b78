package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/soundscape-telemetry/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/soundscape-telemetry/internal/adapter/kafka"
	"github.com/couchcryptid/soundscape-telemetry/internal/adapter/mapbox"
	"github.com/couchcryptid/soundscape-telemetry/internal/adapter/reportstore"
	"github.com/couchcryptid/soundscape-telemetry/internal/config"
	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
	"github.com/couchcryptid/soundscape-telemetry/internal/observability"
	"github.com/couchcryptid/soundscape-telemetry/internal/pipeline"
	"github.com/couchcryptid/soundscape-telemetry/internal/telemetry"
)

// cityCenter biases forward geocoding toward the monitored city.
var cityCenter = domain.Coordinates{Lat: 40.7128, Lon: -74.006}

func main() {
	// A missing .env file is normal outside local development.
	_ = config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Seed snapshot and quiet-zone catalog, optionally overridden by SEED_FILE.
	clock := clockwork.NewRealClock()
	entropy := domain.NewEntropy(cfg.RandomSeed)
	seed := domain.NewSeedSnapshot(entropy, clock.Now())
	zones := domain.DefaultQuietZones()
	if cfg.SeedFile != "" {
		file, err := domain.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			logger.Error("failed to load seed file", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
		if seed, err = file.Apply(seed); err != nil {
			logger.Error("invalid seed file", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
		zones = file.Zones()
		logger.Info("seed file applied", "path", cfg.SeedFile, "areas", len(seed.Areas), "quiet_zones", len(zones))
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger).WithProximity(cityCenter)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	reports, err := reportstore.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open report store", "backend", cfg.ReportStore, "error", err)
		os.Exit(1)
	}

	loop := telemetry.New(seed, entropy, clock, cfg.TickInterval, logger, metrics)

	// Optional Kafka fan-out of every published snapshot.
	var (
		writer      *kafkaadapter.Writer
		pipelineErr = make(chan error, 1)
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		p := pipeline.New(writer, logger, metrics, cfg.KafkaBufferSize, cfg.KafkaBatchSize)
		loop.OnUpdate(p.Listen)
		go func() { pipelineErr <- p.Run(ctx) }()
		logger.Info("kafka snapshot publishing enabled", "topic", cfg.KafkaSnapshotTopic, "brokers", cfg.KafkaBrokers)
	} else {
		close(pipelineErr)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Source:     loop,
		Reports:    reports,
		Geocoder:   geocoder,
		QuietZones: zones,
		Metrics:    metrics,
	}, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start the telemetry loop.
	loop.Start(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	loop.Stop()

	select {
	case err := <-pipelineErr:
		if err != nil {
			logger.Error("snapshot pipeline error", "error", err)
		}
	case <-shutdownCtx.Done():
		logger.Warn("snapshot pipeline did not stop before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := reports.Close(); err != nil {
		logger.Error("report store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
