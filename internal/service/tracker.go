package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/UnknownOlympus/skytrack/internal/ephemeris"
	"github.com/UnknownOlympus/skytrack/internal/geo"
	"github.com/UnknownOlympus/skytrack/internal/metrics"
	"github.com/UnknownOlympus/skytrack/internal/models"
	"github.com/UnknownOlympus/skytrack/internal/repository"
	"github.com/UnknownOlympus/skytrack/internal/track"
	"github.com/UnknownOlympus/skytrack/internal/viewport"
)

// ErrScanUnsupported is returned by Above when the configured provider cannot list satellites.
var ErrScanUnsupported = errors.New("ephemeris provider cannot list satellites above the observer")

// Config holds the tracking parameters of a TrackerService.
type Config struct {
	SatelliteID   int           // NORAD id of the tracked satellite
	FetchInterval time.Duration // interval between sample fetches, also the length of each animation run
	Retention     time.Duration // stored samples older than this are pruned; zero keeps everything
	ProviderName  string        // provider label for metrics
}

// Snapshot is the externally visible tracking state.
type Snapshot struct {
	SatelliteID    int             `json:"satellite_id"`
	Ready          bool            `json:"ready"`
	Position       models.GeoPoint `json:"position"`
	HeadingDegrees float64         `json:"heading_degrees"`
	Heading        string          `json:"heading"`
	AltitudeKm     float64         `json:"altitude_km"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TrackerService periodically fetches position samples for one satellite
// and animates the marker state between fetches.
type TrackerService struct {
	log       *slog.Logger
	provider  ephemeris.Provider
	repo      repository.Interface // optional
	animator  *track.Animator
	projector *viewport.Projector
	metrics   *metrics.Metrics
	observer  models.GeoPoint
	cfg       Config
	now       func() time.Time

	mu        sync.RWMutex
	samples   []models.PositionSample
	updatedAt time.Time
}

// NewTrackerService creates a TrackerService. repo may be nil, in which case samples are not persisted.
func NewTrackerService(
	log *slog.Logger,
	provider ephemeris.Provider,
	repo repository.Interface,
	animator *track.Animator,
	projector *viewport.Projector,
	metrics *metrics.Metrics,
	observer models.GeoPoint,
	cfg Config,
) *TrackerService {
	return &TrackerService{
		log:       log,
		provider:  provider,
		repo:      repo,
		animator:  animator,
		projector: projector,
		metrics:   metrics,
		observer:  observer,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run seeds the track from stored samples, fetches immediately and then on every fetch interval
// until the context is cancelled.
func (ts *TrackerService) Run(ctx context.Context) {
	ticker := time.NewTicker(ts.cfg.FetchInterval)
	defer ticker.Stop()
	defer ts.animator.Stop()

	ts.log.InfoContext(ctx, "Tracker service started...",
		"satellite", ts.cfg.SatelliteID, "interval", ts.cfg.FetchInterval)

	ts.seed(ctx)
	ts.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			ts.log.InfoContext(ctx, "Tracker service stopped.")
			return
		case <-ticker.C:
			ts.log.DebugContext(ctx, "Fetching satellite positions...")
			ts.refresh(ctx)
		}
	}
}

// seed restores the most recent stored samples so a restart resumes the track without waiting for the provider.
func (ts *TrackerService) seed(ctx context.Context) {
	if ts.repo == nil {
		return
	}

	samples, err := ts.repo.LatestSamples(ctx, ts.cfg.SatelliteID, ts.now().Add(-ts.cfg.FetchInterval))
	if err != nil {
		ts.log.ErrorContext(ctx, "Failed to load stored samples", "error", err)
		return
	}
	if len(samples) == 0 {
		ts.log.DebugContext(ctx, "No stored samples to resume from.")
		return
	}

	ts.log.InfoContext(ctx, "Resuming from stored samples", "count", len(samples))
	ts.apply(ctx, samples)
}

// refresh fetches a new batch of samples. On failure or an empty batch the last state is kept
// and no animation is started.
func (ts *TrackerService) refresh(ctx context.Context) {
	startTime := time.Now()
	samples, err := ts.provider.Positions(ctx, ts.cfg.SatelliteID)
	ts.metrics.RequestSeconds.WithLabelValues(ts.cfg.ProviderName).Observe(time.Since(startTime).Seconds())

	if err != nil && !errors.Is(err, ephemeris.ErrEmptyResponse) {
		ts.log.ErrorContext(ctx, "Failed to fetch satellite positions", "error", err)
		ts.metrics.FetchesTotal.WithLabelValues("failure").Inc()
		ts.metrics.ProviderErrors.Inc()
		return
	}
	if len(samples) == 0 {
		ts.log.WarnContext(ctx, "Provider returned no positions, keeping last state.")
		ts.metrics.FetchesTotal.WithLabelValues("empty").Inc()
		return
	}

	ts.metrics.FetchesTotal.WithLabelValues("success").Inc()
	ts.persist(ctx, samples)
	ts.apply(ctx, samples)
}

func (ts *TrackerService) persist(ctx context.Context, samples []models.PositionSample) {
	if ts.repo == nil {
		return
	}

	if err := ts.repo.SaveSamples(ctx, ts.cfg.SatelliteID, samples); err != nil {
		ts.log.ErrorContext(ctx, "Failed to store position samples", "error", err)
	}

	if ts.cfg.Retention <= 0 {
		return
	}
	removed, err := ts.repo.PruneSamples(ctx, ts.now().Add(-ts.cfg.Retention))
	if err != nil {
		ts.log.ErrorContext(ctx, "Failed to prune position samples", "error", err)
		return
	}
	if removed > 0 {
		ts.log.DebugContext(ctx, "Pruned old position samples", "count", removed)
	}
}

func (ts *TrackerService) apply(ctx context.Context, samples []models.PositionSample) {
	ts.mu.Lock()
	ts.samples = slices.Clone(samples)
	ts.updatedAt = ts.now()
	ts.mu.Unlock()

	err := ts.animator.Start(samples, ts.cfg.FetchInterval, nil, func() {
		ts.log.DebugContext(ctx, "Animation run completed", "satellite", ts.cfg.SatelliteID)
	})
	if err != nil {
		ts.log.ErrorContext(ctx, "Failed to start animation", "error", err)
	}
}

// Snapshot returns the current marker state. Ready is false until the first state has been delivered.
func (ts *TrackerService) Snapshot() Snapshot {
	state, ready := ts.animator.State()

	ts.mu.RLock()
	defer ts.mu.RUnlock()

	snapshot := Snapshot{
		SatelliteID:    ts.cfg.SatelliteID,
		Ready:          ready,
		Position:       state.Position,
		HeadingDegrees: state.HeadingDegrees,
		UpdatedAt:      ts.updatedAt,
	}
	if ready {
		snapshot.Heading = geo.BearingLabel(state.HeadingDegrees)
	}
	if len(ts.samples) > 0 {
		snapshot.AltitudeKm = ts.samples[len(ts.samples)-1].AltitudeKm
	}

	return snapshot
}

// Track returns a copy of the samples the current animation runs through.
func (ts *TrackerService) Track() []models.PositionSample {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return slices.Clone(ts.samples)
}

// Observer returns the resolved observer location.
func (ts *TrackerService) Observer() models.GeoPoint {
	return ts.observer
}

// Indicator projects the current marker onto the edge of the given viewport.
// The boolean is false while no state has been delivered yet.
func (ts *TrackerService) Indicator(vp viewport.Viewport) (viewport.EdgeProjection, bool) {
	state, ready := ts.animator.State()
	if !ready {
		return viewport.EdgeProjection{}, false
	}

	projection := ts.projector.Project(vp, state.Position)
	if projection.IsOffscreen {
		ts.metrics.Projections.WithLabelValues("offscreen").Inc()
	} else {
		ts.metrics.Projections.WithLabelValues("onscreen").Inc()
	}

	return projection, true
}

// Above lists the satellites within radius degrees of the observer when the provider supports it.
func (ts *TrackerService) Above(ctx context.Context, radius int) ([]models.Satellite, error) {
	scanner, ok := ts.provider.(ephemeris.Scanner)
	if !ok {
		return nil, ErrScanUnsupported
	}

	return scanner.Above(ctx, ts.observer, radius)
}
