package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Store backends selectable via STORE_BACKEND.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Document store. The memory backend keeps everything in-process and is
	// meant for development and tests.
	StoreBackend string
	MongoURI     string
	MongoDB      string

	// Generation API (OpenAI-compatible chat completions).
	LLMAPIKey  string
	LLMAPIURL  string
	LLMModel   string
	LLMTimeout time.Duration

	// Report generation windows.
	FreshnessWindow time.Duration
	Lookback        time.Duration

	// Twice-daily generation schedule.
	ScheduleEnabled bool
	ScheduleCron    string

	// Optional measurement feed from the upstream ingestion topic.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	llmTimeout, err := parsePositiveDuration("LLM_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	freshnessWindow, err := parsePositiveDuration("FRESHNESS_WINDOW", "12h")
	if err != nil {
		return nil, err
	}
	lookback, err := parsePositiveDuration("LOOKBACK", "12h")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		StoreBackend: envOrDefault("STORE_BACKEND", StoreMongo),
		MongoURI:     envOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      envOrDefault("MONGO_DB", "weather_data"),

		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMAPIURL:  envOrDefault("LLM_API_URL", "https://api.openai.com/v1/chat/completions"),
		LLMModel:   envOrDefault("LLM_MODEL", "gpt-4"),
		LLMTimeout: llmTimeout,

		FreshnessWindow: freshnessWindow,
		Lookback:        lookback,

		ScheduleEnabled: envOrDefault("SCHEDULE_ENABLED", "true") == "true",
		ScheduleCron:    envOrDefault("SCHEDULE_CRON", "0 6,18 * * *"),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_MEASUREMENTS_TOPIC", "hourly-measurements"),
		KafkaGroupID: envOrDefault("KAFKA_GROUP_ID", "weather-report-service"),
	}

	switch cfg.StoreBackend {
	case StoreMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGO_URI is required")
		}
		if cfg.MongoDB == "" {
			return nil, errors.New("MONGO_DB is required")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q (want %q or %q)", cfg.StoreBackend, StoreMongo, StoreMemory)
	}
	if cfg.LLMAPIURL == "" {
		return nil, errors.New("LLM_API_URL is required")
	}
	if cfg.ScheduleEnabled && cfg.ScheduleCron == "" {
		return nil, errors.New("SCHEDULE_ENABLED is true but SCHEDULE_CRON is empty")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

// envOrDefault returns the environment value for key, or def when unset or empty.
func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parsePositiveDuration parses a duration env var, requiring a positive value.
func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseBrokers splits a comma-separated broker list, trimming whitespace and
// dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
