package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// External sources
	NSE   NSEConfig
	GNews GNewsConfig

	// Market session
	MarketTimezone string

	// Cache TTLs
	QuoteCacheTTL    time.Duration
	UniverseCacheTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// NSEConfig holds NSE India API configuration.
type NSEConfig struct {
	BaseURL    string
	ArchiveURL string
	RateLimit  int // requests per second
}

// GNewsConfig holds GNews API configuration. The key is optional:
// without it the pre-market module serves built-in mock headlines.
type GNewsConfig struct {
	APIKey  string
	BaseURL string
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8000"),
		Env:  getEnv("ENV", "development"),

		NSE: NSEConfig{
			BaseURL:    getEnv("NSE_BASE_URL", "https://www.nseindia.com"),
			ArchiveURL: getEnv("NSE_ARCHIVE_URL", "https://archives.nseindia.com"),
			RateLimit:  getEnvAsInt("NSE_RATE_LIMIT", 5),
		},

		GNews: GNewsConfig{
			APIKey:  getEnv("GNEWS_API_KEY", ""),
			BaseURL: getEnv("GNEWS_BASE_URL", "https://gnews.io/api/v4"),
		},

		MarketTimezone: getEnv("MARKET_TZ", "Asia/Kolkata"),

		QuoteCacheTTL:    getEnvAsDuration("QUOTE_CACHE_TTL", "60s"),
		UniverseCacheTTL: getEnvAsDuration("UNIVERSE_CACHE_TTL", "24h"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are sane.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if _, err := time.LoadLocation(c.MarketTimezone); err != nil {
		return fmt.Errorf("MARKET_TZ %q is not a valid timezone: %w", c.MarketTimezone, err)
	}

	if c.QuoteCacheTTL <= 0 {
		return fmt.Errorf("QUOTE_CACHE_TTL must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
