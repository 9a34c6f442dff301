package viewport

import (
	"math"

	"github.com/UnknownOlympus/skytrack/internal/geo"
	"github.com/UnknownOlympus/skytrack/internal/models"
	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// DefaultPadding keeps the indicator this many pixels away from the viewport edge.
const DefaultPadding = 40.0

// Bounds is the geographic rectangle visible in a viewport.
// A NorthEast longitude smaller than the SouthWest one means the box crosses the anti-meridian.
type Bounds struct {
	SouthWest models.GeoPoint `json:"south_west"`
	NorthEast models.GeoPoint `json:"north_east"`
}

// Contains reports whether the point lies inside the bounds, edges included.
// Longitudes outside [-180,180], as reported by a map panned across the date line, are wrapped first.
func (b Bounds) Contains(point models.GeoPoint) bool {
	rect := s2.Rect{
		Lat: r1.Interval{
			Lo: (s1.Angle(b.SouthWest.Latitude) * s1.Degree).Radians(),
			Hi: (s1.Angle(b.NorthEast.Latitude) * s1.Degree).Radians(),
		},
		Lng: s1.IntervalFromEndpoints(
			(s1.Angle(wrapLongitude(b.SouthWest.Longitude)) * s1.Degree).Radians(),
			(s1.Angle(wrapLongitude(b.NorthEast.Longitude)) * s1.Degree).Radians(),
		),
	}

	return rect.ContainsLatLng(s2.LatLngFromDegrees(point.Latitude, wrapLongitude(point.Longitude)))
}

// wrapLongitude maps lon into [-180,180]; values already in range are unchanged.
func wrapLongitude(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	return math.Remainder(lon, 360) //nolint:mnd // full turn
}

// Viewport describes the map surface a projection is computed for.
type Viewport struct {
	Width  float64         `json:"width"`  // Width in pixels.
	Height float64         `json:"height"` // Height in pixels.
	Center models.GeoPoint `json:"center"` // Center is the geographic point under the pixel center.
	Bounds Bounds          `json:"bounds"`
}

// EdgeProjection is where an off-screen indicator pointing at a target should be drawn.
// Only IsOffscreen is meaningful when the target is visible.
type EdgeProjection struct {
	ScreenX        float64 `json:"screen_x"`
	ScreenY        float64 `json:"screen_y"`
	BearingDegrees float64 `json:"bearing_degrees"`
	DistanceKm     float64 `json:"distance_km"`
	IsOffscreen    bool    `json:"is_offscreen"`
	Label          string  `json:"label,omitempty"`
}

// Projector places off-screen indicators on the viewport edge. It holds no state between calls.
type Projector struct {
	padding float64
}

// NewProjector creates a Projector with the given inward padding in pixels.
// A negative padding falls back to DefaultPadding.
func NewProjector(padding float64) *Projector {
	if padding < 0 {
		padding = DefaultPadding
	}
	return &Projector{padding: padding}
}

// Project computes the indicator position for target in the given viewport.
// A viewport without a positive finite size is treated as containing the target.
func (p *Projector) Project(vp Viewport, target models.GeoPoint) EdgeProjection {
	if !isPositiveSize(vp.Width) || !isPositiveSize(vp.Height) || vp.Bounds.Contains(target) {
		return EdgeProjection{IsOffscreen: false}
	}

	bearing := geo.Bearing(vp.Center, target)
	distance := geo.DistanceKm(vp.Center, target)

	cx, cy := vp.Width/2, vp.Height/2 //nolint:mnd // pixel center
	sin := math.Sin(bearing * math.Pi / 180)
	cos := math.Cos(bearing * math.Pi / 180)

	t := math.Inf(1)
	if sin > 0 {
		t = math.Min(t, (vp.Width-cx)/sin)
	}
	if sin < 0 {
		t = math.Min(t, -cx/sin)
	}
	if cos > 0 {
		t = math.Min(t, cy/cos)
	}
	if cos < 0 {
		t = math.Min(t, (cy-vp.Height)/cos)
	}
	if math.IsInf(t, 1) {
		t = 0
	}

	x := cx + t*sin
	y := cy - t*cos

	return EdgeProjection{
		ScreenX:        clamp(x, p.padding, vp.Width-p.padding),
		ScreenY:        clamp(y, p.padding, vp.Height-p.padding),
		BearingDegrees: bearing,
		DistanceKm:     distance,
		IsOffscreen:    true,
		Label:          geo.BearingLabel(bearing),
	}
}

// isPositiveSize rejects zero, negative and non-finite pixel sizes.
func isPositiveSize(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// clamp bounds v to [lo, hi], lo winning when the range is empty.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
