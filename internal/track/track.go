package track

import (
	"errors"
	"math"
	"time"

	"github.com/UnknownOlympus/skytrack/internal/geo"
	"github.com/UnknownOlympus/skytrack/internal/models"
)

// ErrNoSamples is returned when a track is requested for an empty sample sequence.
var ErrNoSamples = errors.New("invalid argument: at least one position sample is required")

// Track interpolates a marker along an ordered sequence of position samples over a fixed duration.
// It is immutable once built and safe for concurrent use.
type Track struct {
	samples  []models.PositionSample
	headings []float64 // headings[i] is the heading used while moving from samples[i] to samples[i+1].
	total    time.Duration
	step     time.Duration
	initial  float64
}

// NewTrack builds a track over samples lasting total. initialHeading is reported until a heading
// can be derived from two distinct samples.
func NewTrack(samples []models.PositionSample, total time.Duration, initialHeading float64) (*Track, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	trk := &Track{
		samples: append([]models.PositionSample(nil), samples...),
		total:   total,
		initial: geo.NormalizeBearing(initialHeading),
	}

	heading := trk.initial
	trk.headings = make([]float64, len(samples)-1)
	for i := range trk.headings {
		from, to := samples[i].Position, samples[i+1].Position
		if from != to {
			heading = geo.Bearing(from, to)
		}
		trk.headings[i] = heading
	}

	if len(samples) > 1 && total > 0 {
		trk.step = total / time.Duration(len(samples)-1)
	}

	return trk, nil
}

// Duration is the total time the track takes to play.
func (t *Track) Duration() time.Duration {
	if t.Instant() {
		return 0
	}
	return t.total
}

// Instant reports whether the track has no motion to animate and resolves to its final state at once.
func (t *Track) Instant() bool {
	return len(t.samples) == 1 || t.step <= 0
}

// Final is the state the track ends in.
func (t *Track) Final() models.AnimationState {
	last := len(t.samples) - 1
	heading := t.initial
	if last > 0 {
		heading = t.headings[last-1]
	}
	return models.AnimationState{Position: t.samples[last].Position, HeadingDegrees: heading}
}

// At returns the interpolated state after elapsed time, and whether the track has finished.
func (t *Track) At(elapsed time.Duration) (models.AnimationState, bool) {
	if t.Instant() || elapsed >= t.total {
		return t.Final(), true
	}
	if elapsed < 0 {
		elapsed = 0
	}

	idx := int(elapsed / t.step)
	if idx > len(t.headings)-1 {
		idx = len(t.headings) - 1
	}
	fraction := float64(elapsed-time.Duration(idx)*t.step) / float64(t.step)
	fraction = math.Max(0, math.Min(1, fraction))

	return models.AnimationState{
		Position:       interpolate(t.samples[idx].Position, t.samples[idx+1].Position, fraction),
		HeadingDegrees: t.headings[idx],
	}, false
}

// interpolate moves linearly in degree space from one point towards another.
// Longitude travels the short way round, so 179 to -179 crosses the anti-meridian.
func interpolate(from, to models.GeoPoint, fraction float64) models.GeoPoint {
	deltaLon := to.Longitude - from.Longitude
	if deltaLon > 180 {
		deltaLon -= 360
	} else if deltaLon < -180 {
		deltaLon += 360
	}

	return models.GeoPoint{
		Latitude:  from.Latitude + (to.Latitude-from.Latitude)*fraction,
		Longitude: wrapLongitude(from.Longitude + deltaLon*fraction),
	}
}

// wrapLongitude maps a longitude into [-180, 180].
func wrapLongitude(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	return math.Mod(math.Mod(lon+180, 360)+360, 360) - 180
}
