package geo_test

import (
	"math"
	"testing"

	"github.com/UnknownOlympus/skytrack/internal/geo"
	"github.com/UnknownOlympus/skytrack/internal/models"
	"github.com/stretchr/testify/assert"
)

var (
	newYork = models.GeoPoint{Latitude: 40.7128, Longitude: -74.0060}
	london  = models.GeoPoint{Latitude: 51.5074, Longitude: -0.1278}
)

func TestBearing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to models.GeoPoint
		want     float64
	}{
		{name: "due north", from: models.GeoPoint{}, to: models.GeoPoint{Latitude: 10}, want: 0},
		{name: "due east", from: models.GeoPoint{}, to: models.GeoPoint{Longitude: 10}, want: 90},
		{name: "due south", from: models.GeoPoint{}, to: models.GeoPoint{Latitude: -10}, want: 180},
		{name: "due west", from: models.GeoPoint{}, to: models.GeoPoint{Longitude: -10}, want: 270},
		{name: "new york to london", from: newYork, to: london, want: 51.2},
		{name: "across the anti-meridian", from: models.GeoPoint{Longitude: 179}, to: models.GeoPoint{Longitude: -179}, want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, geo.Bearing(tt.from, tt.to), 0.5)
		})
	}
}

func TestBearing_Range(t *testing.T) {
	t.Parallel()

	for lat := -80.0; lat <= 80; lat += 20 {
		for lon := -180.0; lon <= 180; lon += 30 {
			got := geo.Bearing(newYork, models.GeoPoint{Latitude: lat, Longitude: lon})
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, 360.0)
		}
	}
}

func TestBearing_IdenticalPoints(t *testing.T) {
	t.Parallel()

	got := geo.Bearing(london, london)

	assert.False(t, math.IsNaN(got))
	assert.Zero(t, got)
}

func TestDistanceKm(t *testing.T) {
	t.Parallel()

	assert.Zero(t, geo.DistanceKm(newYork, newYork))
	assert.InDelta(t, 5570, geo.DistanceKm(newYork, london), 50)
	assert.InDelta(t, geo.DistanceKm(newYork, london), geo.DistanceKm(london, newYork), 1e-9)
	assert.InDelta(t, math.Pi*geo.EarthRadiusKm, geo.DistanceKm(models.GeoPoint{}, models.GeoPoint{Longitude: 180}), 1e-6)
}

func TestNormalizeBearing(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 10.0, geo.NormalizeBearing(370), 1e-9)
	assert.InDelta(t, 350.0, geo.NormalizeBearing(-10), 1e-9)
	assert.Zero(t, geo.NormalizeBearing(360))
	assert.Zero(t, geo.NormalizeBearing(-360))
}

func TestBearingLabel(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{
		0:     "0° N",
		22.5:  "23° NNE",
		90:    "90° E",
		135.2: "135° SE",
		200:   "200° SSW",
		359.9: "0° N",
	}

	for bearing, want := range tests {
		assert.Equal(t, want, geo.BearingLabel(bearing), "bearing %v", bearing)
	}
}
