package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/skytrack/internal/geo"
	"github.com/UnknownOlympus/skytrack/internal/models"
)

// Locator resolves the observer location from user-supplied text.
type Locator struct {
	provider Provider // optional; nil disables address lookup
	log      *slog.Logger
}

// NewLocator creates a Locator. provider may be nil.
func NewLocator(provider Provider, log *slog.Logger) *Locator {
	return &Locator{provider: provider, log: log}
}

// Resolve accepts a DMS pair, a decimal "lat,lng" pair or, when a provider is configured, a free-form address.
// When nothing matches the coordinate parse error is returned and the caller decides on a fallback.
func (l *Locator) Resolve(ctx context.Context, text string) (models.GeoPoint, error) {
	point, err := geo.ParseCoordinates(text)
	if err == nil {
		return point, nil
	}

	if l.provider == nil || strings.TrimSpace(text) == "" {
		return models.GeoPoint{}, err
	}

	l.log.DebugContext(ctx, "Observer is not a coordinate, geocoding it", "observer", text)
	located, geoErr := l.provider.Geocode(ctx, text)
	if geoErr != nil {
		return models.GeoPoint{}, fmt.Errorf("failed to locate observer %q: %w", text, geoErr)
	}

	return *located, nil
}
