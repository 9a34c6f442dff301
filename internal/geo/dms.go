package geo

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/skytrack/internal/models"
)

// ErrInvalidCoordinate is matched by every coordinate parsing failure.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ParseError is returned when a coordinate string cannot be converted to decimal degrees.
type ParseError struct {
	Input  string // Input is the text that failed to parse.
	Reason string // Reason describes which part of the input was rejected.
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid coordinate %q: %s", e.Input, e.Reason)
}

// Is reports ErrInvalidCoordinate as the cause of every ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidCoordinate
}

// dmsComponent matches a single DMS component such as 40°38'57.3"N.
var dmsComponent = regexp.MustCompile(`^(\d+)\D+(\d+)\D+(\d+(?:\.\d+)?)\D*([NSEW])$`)

const (
	maxLatitude      = 90
	maxLongitude     = 180
	minutesPerDegree = 60
	secondsPerDegree = 3600
)

// ParseDMS converts a sexagesimal coordinate pair like `40°38'57.3"N 73°53'42.8"W`
// into decimal degrees. The latitude component comes first.
func ParseDMS(text string) (models.GeoPoint, error) {
	parts := strings.Fields(text)
	if len(parts) != 2 { //nolint:mnd // latitude and longitude
		return models.GeoPoint{}, &ParseError{
			Input:  text,
			Reason: fmt.Sprintf("expected 2 whitespace separated components, got %d", len(parts)),
		}
	}

	lat, err := parseComponent(text, parts[0], "NS", maxLatitude)
	if err != nil {
		return models.GeoPoint{}, err
	}
	lon, err := parseComponent(text, parts[1], "EW", maxLongitude)
	if err != nil {
		return models.GeoPoint{}, err
	}

	return models.GeoPoint{Latitude: lat, Longitude: lon}, nil
}

func parseComponent(input, component, hemispheres string, limit float64) (float64, error) {
	match := dmsComponent.FindStringSubmatch(component)
	if match == nil {
		return 0, &ParseError{Input: input, Reason: fmt.Sprintf("component %q is not degrees, minutes, seconds, hemisphere", component)}
	}

	// The pattern guarantees plain decimal numbers.
	degrees, _ := strconv.ParseFloat(match[1], 64)
	minutes, _ := strconv.ParseFloat(match[2], 64)
	seconds, _ := strconv.ParseFloat(match[3], 64)
	hemisphere := match[4]

	if !strings.Contains(hemispheres, hemisphere) {
		return 0, &ParseError{Input: input, Reason: fmt.Sprintf("component %q has hemisphere %s, want one of %s",
			component, hemisphere, hemispheres)}
	}
	if minutes >= minutesPerDegree || seconds >= minutesPerDegree {
		return 0, &ParseError{Input: input, Reason: fmt.Sprintf("component %q has minutes or seconds out of range", component)}
	}

	decimal := degrees + minutes/minutesPerDegree + seconds/secondsPerDegree
	if decimal > limit {
		return 0, &ParseError{Input: input, Reason: fmt.Sprintf("component %q exceeds %v degrees", component, limit)}
	}
	if hemisphere == "S" || hemisphere == "W" {
		decimal = -decimal
	}

	return decimal, nil
}

// ParseCoordinates accepts either a DMS pair or a decimal "lat,lng" pair.
// When neither form matches, the DMS parse error is returned.
func ParseCoordinates(text string) (models.GeoPoint, error) {
	point, dmsErr := ParseDMS(text)
	if dmsErr == nil {
		return point, nil
	}

	parts := strings.Split(text, ",")
	if len(parts) != 2 { //nolint:mnd // latitude and longitude
		return models.GeoPoint{}, dmsErr
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return models.GeoPoint{}, dmsErr
	}
	if math.IsNaN(lat) || math.IsNaN(lon) ||
		lat < -maxLatitude || lat > maxLatitude || lon < -maxLongitude || lon > maxLongitude {
		return models.GeoPoint{}, &ParseError{Input: text, Reason: "decimal coordinates out of range"}
	}

	return models.GeoPoint{Latitude: lat, Longitude: lon}, nil
}

// FormatDMS renders a point as a DMS pair with seconds to one decimal place, the inverse of ParseDMS.
func FormatDMS(point models.GeoPoint) string {
	return formatComponent(point.Latitude, "N", "S") + " " + formatComponent(point.Longitude, "E", "W")
}

func formatComponent(decimal float64, positive, negative string) string {
	hemisphere := positive
	if decimal < 0 {
		hemisphere = negative
		decimal = -decimal
	}

	const tenthsPerDegree = secondsPerDegree * 10
	tenths := int64(math.Round(decimal * tenthsPerDegree))
	degrees := tenths / tenthsPerDegree
	tenths %= tenthsPerDegree
	minutes := tenths / (minutesPerDegree * 10)
	tenths %= minutesPerDegree * 10

	return fmt.Sprintf("%d°%d'%d.%d\"%s", degrees, minutes, tenths/10, tenths%10, hemisphere)
}
