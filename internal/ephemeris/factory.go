package ephemeris

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ProviderType represents the type of ephemeris provider.
type ProviderType string

const (
	// ProviderTypeAPI fetches positions from a remote satellite tracking API.
	ProviderTypeAPI ProviderType = "api"
	// ProviderTypeSGP4 propagates positions locally from a two-line element set.
	ProviderTypeSGP4 ProviderType = "sgp4"
)

// ProviderConfig holds configuration for creating an ephemeris provider.
type ProviderConfig struct {
	Type        ProviderType  // Type of provider to create
	BaseURL     string        // Base URL of the tracking API (api provider)
	RateLimit   int           // Requests per second towards the tracking API (api provider)
	TLELine1    string        // First TLE line (sgp4 provider)
	TLELine2    string        // Second TLE line (sgp4 provider)
	SampleCount int           // Number of samples per fetch
	SampleStep  time.Duration // Time between consecutive samples
	Logger      *slog.Logger  // Logger for the provider
}

// NewProvider creates an ephemeris provider based on the provided configuration.
//
// Supported provider types:
// - "api": remote tracking API (requires a base URL)
// - "sgp4": local SGP4 propagation (requires both TLE lines)
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeAPI:
		return newAPIProvider(config)
	case ProviderTypeSGP4:
		return newSGP4Provider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

func newAPIProvider(config ProviderConfig) (Provider, error) {
	if config.BaseURL == "" {
		return nil, errors.New("base URL is required for API provider")
	}

	if config.RateLimit <= 0 {
		config.RateLimit = 1
		config.Logger.Warn("Rate limit for tracking API not set, set a default value", "value", config.RateLimit)
	}

	return NewAPIProvider(config.BaseURL, config.RateLimit, config.SampleCount, config.Logger), nil
}

func newSGP4Provider(config ProviderConfig) (Provider, error) {
	if config.TLELine1 == "" || config.TLELine2 == "" {
		return nil, errors.New("both TLE lines are required for SGP4 provider")
	}

	provider, err := NewSGP4Provider(config.TLELine1, config.TLELine2, config.SampleCount, config.SampleStep, config.Logger)
	if err != nil {
		return nil, err
	}

	return provider, nil
}
