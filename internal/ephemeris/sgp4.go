package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/UnknownOlympus/skytrack/internal/models"
)

const (
	tleLineLength      = 69
	defaultSampleCount = 120
	defaultSampleStep  = time.Second
)

// SGP4Provider propagates a satellite's track locally from a two-line element set.
type SGP4Provider struct {
	sat   satellite.Satellite
	count int
	step  time.Duration
	now   func() time.Time
	log   *slog.Logger
}

// NewSGP4Provider creates a provider producing count samples step apart, starting at the current time.
//
// The TLE is validated before it reaches go-satellite, which exits the process on malformed input.
func NewSGP4Provider(line1, line2 string, count int, step time.Duration, log *slog.Logger) (*SGP4Provider, error) {
	if err := validateTLELines(line1, line2); err != nil {
		return nil, fmt.Errorf("invalid TLE: %w", err)
	}

	sat := satellite.TLEToSat(strings.TrimSpace(line1), strings.TrimSpace(line2), satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed: code=%d %s", sat.Error, sat.ErrorStr)
	}

	if count <= 0 {
		count = defaultSampleCount
	}
	if step <= 0 {
		step = defaultSampleStep
	}

	return &SGP4Provider{sat: sat, count: count, step: step, now: time.Now, log: log}, nil
}

// WithClock overrides the start time source; used for deterministic propagation.
func (sp *SGP4Provider) WithClock(now func() time.Time) *SGP4Provider {
	sp.now = now
	return sp
}

func validateTLELines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != tleLineLength {
		return fmt.Errorf("line1 length %d, expected %d", len(line1), tleLineLength)
	}
	if len(line2) != tleLineLength {
		return fmt.Errorf("line2 length %d, expected %d", len(line2), tleLineLength)
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got '%c'", line2[0])
	}
	return nil
}

// Positions propagates the configured satellite. satID is only used for logging; the TLE defines the satellite.
func (sp *SGP4Provider) Positions(ctx context.Context, satID int) ([]models.PositionSample, error) {
	start := sp.now().UTC().Truncate(time.Second)
	samples := make([]models.PositionSample, 0, sp.count)

	for i := range sp.count {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("propagation cancelled: %w", err)
		}

		at := start.Add(time.Duration(i) * sp.step)
		sample, err := sp.propagate(at)
		if err != nil {
			return nil, fmt.Errorf("failed to propagate satellite %d at %s: %w", satID, at.Format(time.RFC3339), err)
		}
		samples = append(samples, sample)
	}

	sp.log.DebugContext(ctx, "Propagated satellite track", "satellite", satID, "samples", len(samples))

	return samples, nil
}

func (sp *SGP4Provider) propagate(at time.Time) (models.PositionSample, error) {
	year, month, day := at.Date()
	hour, minute, sec := at.Clock()

	pos, _ := satellite.Propagate(sp.sat, year, int(month), day, hour, minute, sec)
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return models.PositionSample{}, errors.New("sgp4 output is NaN/Inf")
	}

	gmst := satellite.GSTimeFromDate(year, int(month), day, hour, minute, sec)
	altitude, _, lla := satellite.ECIToLLA(pos, gmst)

	return models.PositionSample{
		Time: at,
		Position: models.GeoPoint{
			Latitude:  lla.Latitude * 180 / math.Pi,
			Longitude: normalizeLongitude(lla.Longitude * 180 / math.Pi),
		},
		AltitudeKm: altitude,
	}, nil
}

// normalizeLongitude maps any longitude in degrees into [-180, 180).
func normalizeLongitude(lon float64) float64 {
	return math.Mod(math.Mod(lon+180, 360)+360, 360) - 180
}
