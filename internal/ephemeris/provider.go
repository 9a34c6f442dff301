package ephemeris

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/skytrack/internal/models"
)

// Provider is an interface that defines a method for obtaining a satellite's upcoming track.
// Positions returns samples ordered earliest first.
type Provider interface {
	Positions(ctx context.Context, satID int) ([]models.PositionSample, error)
}

// Scanner is implemented by providers that can list the satellites above an observer.
type Scanner interface {
	Above(ctx context.Context, observer models.GeoPoint, radius int) ([]models.Satellite, error)
}

// ErrEmptyResponse is returned when a provider has no positions for the requested satellite.
var ErrEmptyResponse = errors.New("ephemeris provider returned no positions")
