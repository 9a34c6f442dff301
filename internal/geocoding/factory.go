package geocoding

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType names an address lookup backend for the observer.
type ProviderType string

const (
	// ProviderTypeNone disables address lookup; observers must be given as coordinates.
	ProviderTypeNone ProviderType = "none"
	// ProviderTypeGoogle looks addresses up with the Google Maps Geocoding API.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeNominatim looks addresses up with OpenStreetMap Nominatim.
	ProviderTypeNominatim ProviderType = "nominatim"
)

// ErrMissingAPIKey is returned when the Google backend is selected without a key.
var ErrMissingAPIKey = errors.New("API key is required for Google provider")

// ProviderConfig selects the address lookup used when the observer is not a coordinate pair.
type ProviderConfig struct {
	Type      ProviderType // backend to use; empty means none
	APIKey    string       // Google only
	Region    string       // Google only, ccTLD region bias such as "ie"
	RateLimit int          // Google only, requests per second; zero keeps the client default
	Logger    *slog.Logger
}

// NewProvider returns the configured address lookup.
// When lookup is disabled it returns a nil Provider and no error, which Locator accepts.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeNone, "":
		return nil, nil //nolint:nilnil // address lookup disabled
	case ProviderTypeNominatim:
		return NewNominatimProvider(config.Logger), nil
	case ProviderTypeGoogle:
		client, err := newGoogleClient(config)
		if err != nil {
			return nil, err
		}
		return NewGoogleProvider(client, config.Logger).WithRegion(config.Region), nil
	}

	return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
}

func newGoogleClient(config ProviderConfig) (*maps.Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []maps.ClientOption{maps.WithAPIKey(config.APIKey)}
	if config.RateLimit > 0 {
		opts = append(opts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return client, nil
}
