package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External data sources
	Nasdaq     NasdaqConfig
	MarketData MarketDataConfig

	// Staging pipeline
	Pipeline PipelineConfig

	// Scheduler
	Schedule ScheduleConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// NasdaqConfig holds the symbol directory source configuration
type NasdaqConfig struct {
	ListingURL string // pipe-delimited nasdaqlisted.txt
}

// MarketDataConfig holds quote/fundamentals oracle configuration
type MarketDataConfig struct {
	SnapshotURL     string  // quote snapshot endpoint, takes ?symbols=
	FundamentalsURL string  // per-ticker short interest page, %s = ticker
	RequestsPerSec  float64 // outbound rate limit
}

// PipelineConfig holds staging pipeline tuning
type PipelineConfig struct {
	ChunkSize int           // tickers staged per invocation
	RunBudget time.Duration // wall-clock budget for run-all mode
	LockWait  time.Duration // bounded wait for the pipeline lock
	LockTTL   time.Duration // lock safety expiry
	TopN      int           // ranked signals kept per scoring run
}

// ScheduleConfig holds cron expressions (with seconds field)
type ScheduleConfig struct {
	StagingCron string
	ScoringCron string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// External data sources
		Nasdaq: NasdaqConfig{
			ListingURL: getEnv("NASDAQ_LISTING_URL",
				"https://www.nasdaqtrader.com/dynamic/SymDir/nasdaqlisted.txt"),
		},
		MarketData: MarketDataConfig{
			SnapshotURL:     getEnv("MARKETDATA_SNAPSHOT_URL", ""),
			FundamentalsURL: getEnv("FUNDAMENTALS_URL", ""),
			RequestsPerSec:  getEnvAsFloat("MARKETDATA_RPS", 4.0),
		},

		// Staging pipeline
		Pipeline: PipelineConfig{
			ChunkSize: getEnvAsInt("PIPELINE_CHUNK_SIZE", 500),
			RunBudget: getEnvAsDuration("PIPELINE_RUN_BUDGET", "4m"),
			LockWait:  getEnvAsDuration("PIPELINE_LOCK_WAIT", "3s"),
			LockTTL:   getEnvAsDuration("PIPELINE_LOCK_TTL", "10m"),
			TopN:      getEnvAsInt("PIPELINE_TOP_N", 12),
		},

		// Scheduler
		Schedule: ScheduleConfig{
			StagingCron: getEnv("SCHEDULE_STAGING_CRON", "0 */5 9-16 * * MON-FRI"),
			ScoringCron: getEnv("SCHEDULE_SCORING_CRON", "0 10 16 * * MON-FRI"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
// DATABASE_URL may be empty — the application falls back to in-memory stores.
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Pipeline.ChunkSize <= 0 {
		return fmt.Errorf("PIPELINE_CHUNK_SIZE must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
