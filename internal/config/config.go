package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset location and the default year window shown on first load.
	DataPath        string
	DataDir         string
	DefaultYearFrom int
	DefaultYearTo   int

	CORSAllowedOrigins []string

	// Kaggle download configuration, used by the fetch command only.
	KaggleDataset  string
	KaggleUsername string
	KaggleKey      string
	KaggleBaseURL  string
	KaggleTimeout  time.Duration

	// Optional publishing of cleaned records.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaTopic     string
	KafkaBatchSize int
}

// Load reads configuration from an optional .env file and the environment,
// applying defaults where unset. Variables already set in the environment
// take precedence over the .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is not an error

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	kaggleTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("KAGGLE_TIMEOUT", "60s"))
	if err != nil || kaggleTimeout <= 0 {
		return nil, errors.New("invalid KAGGLE_TIMEOUT")
	}

	yearFrom, err := parseInt("DEFAULT_YEAR_FROM", 2000)
	if err != nil {
		return nil, err
	}
	yearTo, err := parseInt("DEFAULT_YEAR_TO", 2024)
	if err != nil {
		return nil, err
	}

	batchSize, err := parseInt("KAFKA_BATCH_SIZE", 100)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataPath:        sharedcfg.EnvOrDefault("DATA_PATH", "data/climate_change_data.csv"),
		DataDir:         sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		DefaultYearFrom: yearFrom,
		DefaultYearTo:   yearTo,

		CORSAllowedOrigins: splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		KaggleDataset:  sharedcfg.EnvOrDefault("KAGGLE_DATASET", "goyaladi/climate-insights-dataset"),
		KaggleUsername: os.Getenv("KAGGLE_USERNAME"),
		KaggleKey:      os.Getenv("KAGGLE_KEY"),
		KaggleBaseURL:  sharedcfg.EnvOrDefault("KAGGLE_API_URL", "https://www.kaggle.com/api/v1"),
		KaggleTimeout:  kaggleTimeout,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:     sharedcfg.EnvOrDefault("KAFKA_TOPIC", "cleaned-climate-records"),
		KafkaBatchSize: batchSize,
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.DefaultYearFrom > cfg.DefaultYearTo {
		return nil, errors.New("DEFAULT_YEAR_FROM must not be after DEFAULT_YEAR_TO")
	}
	if cfg.KafkaBatchSize < 1 || cfg.KafkaBatchSize > 10000 {
		return nil, errors.New("KAFKA_BATCH_SIZE must be between 1 and 10000")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
