package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "https://www.nseindia.com", cfg.NSE.BaseURL)
	assert.Equal(t, "Asia/Kolkata", cfg.MarketTimezone)
	assert.Equal(t, "60s", cfg.QuoteCacheTTL.String())
	assert.Equal(t, "24h0m0s", cfg.UniverseCacheTTL.String())
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("ENV", "sandbox")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("MARKET_TZ", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("QUOTE_CACHE_TTL", "30s")
	t.Setenv("GNEWS_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "30s", cfg.QuoteCacheTTL.String())
	assert.Equal(t, "test-key", cfg.GNews.APIKey)
}

func TestBadDurationFallsBack(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("QUOTE_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "60s", cfg.QuoteCacheTTL.String())
}
