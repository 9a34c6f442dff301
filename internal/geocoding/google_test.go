package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/skytrack/internal/geocoding"
	"github.com/UnknownOlympus/skytrack/internal/models"
	"github.com/UnknownOlympus/skytrack/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGoogleProvider_Geocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, slog.Default())
	ctx := t.Context()

	t.Run("api returns error", func(t *testing.T) {
		address := "Nowhere Observatory"
		mockClient.On("Geocode", ctx, &maps.GeocodingRequest{Address: address}).Return(nil, assert.AnError).Once()

		_, err := provider.Geocode(ctx, address)

		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api returns empty response", func(t *testing.T) {
		address := "Nowhere Observatory"
		mockClient.On("Geocode", ctx, &maps.GeocodingRequest{Address: address}).Return(nil, nil).Once()

		point, err := provider.Geocode(ctx, address)

		require.Nil(t, point)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		mockClient.AssertExpectations(t)
	})

	t.Run("successful geocoding", func(t *testing.T) {
		address := "Griffith Observatory, Los Angeles, CA"
		response := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 34.1184, Lng: -118.3004}}},
		}
		mockClient.On("Geocode", ctx, &maps.GeocodingRequest{Address: address}).Return(response, nil).Once()

		point, err := provider.Geocode(ctx, address)

		require.NoError(t, err)
		require.NotNil(t, point)
		assert.InEpsilon(t, 34.1184, point.Latitude, 0.0001)
		assert.InEpsilon(t, -118.3004, point.Longitude, 0.0001)
		mockClient.AssertExpectations(t)
	})

	t.Run("region bias and partial match", func(t *testing.T) {
		regional := geocoding.NewGoogleProvider(mockClient, slog.Default()).WithRegion("ie")
		address := "Harbour Road, Kilkee"
		response := []maps.GeocodingResult{{
			FormattedAddress: "Kilkee, Co. Clare, Ireland",
			PartialMatch:     true,
			Geometry:         maps.AddressGeometry{Location: maps.LatLng{Lat: 52.6814, Lng: -9.6478}},
		}}
		mockClient.On("Geocode", ctx, &maps.GeocodingRequest{Address: address, Region: "ie"}).Return(response, nil).Once()

		point, err := regional.Geocode(ctx, address)

		require.NoError(t, err)
		assert.Equal(t, &models.GeoPoint{Latitude: 52.6814, Longitude: -9.6478}, point)
		mockClient.AssertExpectations(t)
	})
}
