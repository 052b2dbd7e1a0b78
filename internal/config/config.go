package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Report store backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Telemetry loop.
	TickInterval time.Duration
	RandomSeed   uint64
	SeedFile     string

	// Kafka snapshot publishing.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string
	KafkaBufferSize    int
	KafkaBatchSize     int

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Noise report persistence.
	ReportStore   string
	SQLitePath    string
	PostgresDSN   string
	DynamoDBTable string
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding variables already set in the environment.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	tickInterval, err := parsePositiveDuration("TICK_INTERVAL", "5s")
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	seed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("RANDOM_SEED", "0"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid RANDOM_SEED")
	}

	bufferSize, err := parsePositiveInt("KAFKA_BUFFER_SIZE", 16)
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	mapboxCacheSize := parseMapboxCacheSize()

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		TickInterval: tickInterval,
		RandomSeed:   seed,
		SeedFile:     os.Getenv("SEED_FILE"),

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "noise-snapshots"),
		KafkaBufferSize:    bufferSize,
		KafkaBatchSize:     batchSize,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,

		ReportStore:   sharedcfg.EnvOrDefault("REPORT_STORE", StoreSQLite),
		SQLitePath:    sharedcfg.EnvOrDefault("SQLITE_PATH", "noise_reports.db"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		DynamoDBTable: sharedcfg.EnvOrDefault("DYNAMODB_TABLE", "NoiseReports"),
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSnapshotTopic == "" {
			return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required")
		}
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	switch cfg.ReportStore {
	case StoreSQLite, StoreMemory:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("POSTGRES_DSN is required when REPORT_STORE is postgres")
		}
	case StoreDynamoDB:
		if cfg.DynamoDBTable == "" {
			return nil, errors.New("DYNAMODB_TABLE is required when REPORT_STORE is dynamodb")
		}
	default:
		return nil, fmt.Errorf("invalid REPORT_STORE %q", cfg.ReportStore)
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
