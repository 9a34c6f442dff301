package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/skytrack/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleAPIClient is the part of *maps.Client the provider calls.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when Google Maps has no match for the observer address.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// GoogleProvider locates observers with the Google Maps Geocoding API.
type GoogleProvider struct {
	client GoogleAPIClient
	region string // ccTLD bias, empty for none
	log    *slog.Logger
}

// NewGoogleProvider wraps a Google Maps client without a region bias.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// WithRegion biases lookups towards a country, given as a ccTLD ("ie", "us").
func (gp *GoogleProvider) WithRegion(region string) *GoogleProvider {
	gp.region = region
	return gp
}

// Geocode returns the location of the best match for address.
// A partial match is accepted and logged.
func (gp *GoogleProvider) Geocode(ctx context.Context, address string) (*models.GeoPoint, error) {
	results, err := gp.client.Geocode(ctx, &maps.GeocodingRequest{Address: address, Region: gp.region})
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrEmptyResponse
	}

	best := results[0]
	if best.PartialMatch {
		gp.log.WarnContext(ctx, "Observer address only partially matched",
			"address", address, "matched", best.FormattedAddress)
	}

	location := best.Geometry.Location
	gp.log.DebugContext(ctx, "Observer located by Google Maps",
		"matched", best.FormattedAddress, "latitude", location.Lat, "longitude", location.Lng)

	return &models.GeoPoint{Latitude: location.Lat, Longitude: location.Lng}, nil
}
