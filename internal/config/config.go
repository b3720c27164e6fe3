package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	SampleDir      string
	SpectraDir     string
	PlanPath       string
	SampleSize     int
	SampleSeed     int64
	ArchiveBaseURL string
	ArchiveToken   string
	DataRelease    int
	FetchTimeout   time.Duration
	MaxAttempts    int
	RetryDelay     time.Duration
	JournalPath    string
}

func New() (*Config, error) {
	cfg := &Config{
		SampleDir:      getEnv("SAMPLE_DIR", "data/processed/sampled"),
		SpectraDir:     getEnv("SPECTRA_DIR", "data/spectra"),
		PlanPath:       os.Getenv("SAMPLE_PLAN"),
		ArchiveBaseURL: getEnv("LAMOST_BASE_URL", "https://www.lamost.org"),
		ArchiveToken:   os.Getenv("LAMOST_TOKEN"),
		JournalPath:    getEnv("JOURNAL_DB", "spectra_journal.db"),
		SampleSize:     1000,
		SampleSeed:     42,
		DataRelease:    10,
		MaxAttempts:    3,
	}

	var err error
	cfg.SampleSize, err = getEnvAsInt("SAMPLE_SIZE", cfg.SampleSize)
	if err != nil {
		return nil, err
	}

	seed, err := getEnvAsInt("SAMPLE_SEED", int(cfg.SampleSeed))
	if err != nil {
		return nil, err
	}
	cfg.SampleSeed = int64(seed)

	cfg.DataRelease, err = getEnvAsInt("LAMOST_DATA_RELEASE", cfg.DataRelease)
	if err != nil {
		return nil, err
	}

	cfg.MaxAttempts, err = getEnvAsInt("FETCH_MAX_ATTEMPTS", cfg.MaxAttempts)
	if err != nil {
		return nil, err
	}

	timeoutSecs, err := getEnvAsInt("FETCH_TIMEOUT_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	cfg.FetchTimeout = time.Duration(timeoutSecs) * time.Second

	delaySecs, err := getEnvAsInt("FETCH_RETRY_DELAY_SECONDS", 2)
	if err != nil {
		return nil, err
	}
	cfg.RetryDelay = time.Duration(delaySecs) * time.Second

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}
