package geo

import (
	"fmt"
	"math"

	"github.com/UnknownOlympus/skytrack/internal/models"
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

const fullCircle = 360.0

// compassPoints is the 16-wind compass rose starting at north.
var compassPoints = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeBearing maps any angle in degrees into [0, 360).
func NormalizeBearing(deg float64) float64 {
	normalized := math.Mod(math.Mod(deg, fullCircle)+fullCircle, fullCircle)
	if normalized >= fullCircle {
		return 0
	}
	return normalized
}

// Bearing returns the initial great-circle bearing from one point to another in degrees, [0, 360).
// The bearing between identical points is 0.
func Bearing(from, to models.GeoPoint) float64 {
	phi1 := toRadians(from.Latitude)
	phi2 := toRadians(to.Latitude)
	deltaLambda := toRadians(to.Longitude - from.Longitude)

	y := math.Sin(deltaLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLambda)

	return NormalizeBearing(toDegrees(math.Atan2(y, x)))
}

// DistanceKm returns the haversine great-circle distance between two points in kilometres.
func DistanceKm(from, to models.GeoPoint) float64 {
	a := s2.LatLngFromDegrees(from.Latitude, from.Longitude)
	b := s2.LatLngFromDegrees(to.Latitude, to.Longitude)

	return a.Distance(b).Radians() * EarthRadiusKm
}

// BearingLabel renders a bearing as whole degrees followed by its 16-point compass direction, e.g. "135° SE".
func BearingLabel(bearing float64) string {
	const sector = fullCircle / float64(len(compassPoints))

	bearing = NormalizeBearing(bearing)
	idx := int(math.Round(bearing/sector)) % len(compassPoints)

	return fmt.Sprintf("%d° %s", int(math.Round(bearing))%int(fullCircle), compassPoints[idx])
}
