package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
// The analytics core never reads the environment directly; everything it
// needs arrives through this object at construction time.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Record store (Google Sheets values API)
	SheetsAPIURL      string
	SheetsAPIKey      string
	SpreadsheetID     string
	SalesWorksheet    string
	ExpensesWorksheet string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache (raw worksheet snapshots only; reports are never cached)
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Report tuning
	RankingLimit   int
	RecentMonths   int
	ForecastPolicy string // linear | weighted
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SheetsAPIURL:      getEnv("SHEETS_API_URL", "https://sheets.googleapis.com"),
		SheetsAPIKey:      getEnv("SHEETS_API_KEY", ""),
		SpreadsheetID:     getEnv("SPREADSHEET_ID", ""),
		SalesWorksheet:    getEnv("SALES_WORKSHEET", "VENDAS"),
		ExpensesWorksheet: getEnv("EXPENSES_WORKSHEET", "GASTOS"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 10),

		CacheTTL: getEnvDuration("CACHE_TTL", 2*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		RankingLimit:   getEnvInt("RANKING_LIMIT", 10),
		RecentMonths:   getEnvInt("RECENT_MONTHS", 12),
		ForecastPolicy: getEnv("FORECAST_POLICY", "linear"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
