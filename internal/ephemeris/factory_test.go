package ephemeris_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/skytrack/internal/ephemeris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	t.Run("create API provider successfully", func(t *testing.T) {
		provider, err := ephemeris.NewProvider(ephemeris.ProviderConfig{
			Type:      ephemeris.ProviderTypeAPI,
			BaseURL:   "https://space-api.example.test",
			RateLimit: 2,
			Logger:    logger,
		})

		require.NoError(t, err)
		_, ok := provider.(*ephemeris.APIProvider)
		assert.True(t, ok, "expected provider to be *APIProvider")
		_, ok = provider.(ephemeris.Scanner)
		assert.True(t, ok, "expected API provider to scan the sky")
	})

	t.Run("create API provider without rate limit", func(t *testing.T) {
		provider, err := ephemeris.NewProvider(ephemeris.ProviderConfig{
			Type:    ephemeris.ProviderTypeAPI,
			BaseURL: "https://space-api.example.test",
			Logger:  logger,
		})

		require.NoError(t, err)
		require.NotNil(t, provider)
	})

	t.Run("create API provider without base URL fails", func(t *testing.T) {
		provider, err := ephemeris.NewProvider(ephemeris.ProviderConfig{Type: ephemeris.ProviderTypeAPI, Logger: logger})

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "base URL is required for API provider")
	})

	t.Run("create SGP4 provider successfully", func(t *testing.T) {
		provider, err := ephemeris.NewProvider(ephemeris.ProviderConfig{
			Type:        ephemeris.ProviderTypeSGP4,
			TLELine1:    issLine1,
			TLELine2:    issLine2,
			SampleCount: 60,
			SampleStep:  2 * time.Second,
			Logger:      logger,
		})

		require.NoError(t, err)
		_, ok := provider.(*ephemeris.SGP4Provider)
		assert.True(t, ok, "expected provider to be *SGP4Provider")
		_, ok = provider.(ephemeris.Scanner)
		assert.False(t, ok)
	})

	t.Run("create SGP4 provider without TLE fails", func(t *testing.T) {
		provider, err := ephemeris.NewProvider(ephemeris.ProviderConfig{Type: ephemeris.ProviderTypeSGP4, Logger: logger})

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "both TLE lines are required")
	})

	t.Run("create SGP4 provider with malformed TLE fails", func(t *testing.T) {
		provider, err := ephemeris.NewProvider(ephemeris.ProviderConfig{
			Type:     ephemeris.ProviderTypeSGP4,
			TLELine1: "1 bad",
			TLELine2: "2 bad",
			Logger:   logger,
		})

		require.Error(t, err)
		require.Nil(t, provider)
	})

	t.Run("unsupported provider type", func(t *testing.T) {
		provider, err := ephemeris.NewProvider(ephemeris.ProviderConfig{Type: "horizons", Logger: logger})

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "unsupported provider type: horizons")
	})
}
