package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/UnknownOlympus/skytrack/internal/api"
	"github.com/UnknownOlympus/skytrack/internal/models"
	"github.com/UnknownOlympus/skytrack/internal/service"
	"github.com/UnknownOlympus/skytrack/internal/viewport"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTracker struct {
	snapshot  service.Snapshot
	samples   []models.PositionSample
	observer  models.GeoPoint
	viewport  viewport.Viewport
	ready     bool
	above     []models.Satellite
	aboveErr  error
	gotRadius int
}

func (f *fakeTracker) Snapshot() service.Snapshot     { return f.snapshot }
func (f *fakeTracker) Track() []models.PositionSample { return f.samples }
func (f *fakeTracker) Observer() models.GeoPoint      { return f.observer }
func (f *fakeTracker) Above(_ context.Context, radius int) ([]models.Satellite, error) {
	f.gotRadius = radius
	return f.above, f.aboveErr
}

func (f *fakeTracker) Indicator(vp viewport.Viewport) (viewport.EdgeProjection, bool) {
	f.viewport = vp
	if !f.ready {
		return viewport.EdgeProjection{}, false
	}
	return viewport.NewProjector(-1).Project(vp, f.snapshot.Position), true
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newServer(tracker *fakeTracker, db api.Pinger) http.Handler {
	return api.NewServer(slog.Default(), tracker, prometheus.NewRegistry(), db, 15, 0).Handler()
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func TestHealth(t *testing.T) {
	t.Run("without database", func(t *testing.T) {
		resp := get(t, newServer(&fakeTracker{}, nil), "/healthz")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "OK", resp.Body.String())
	})

	t.Run("database healthy", func(t *testing.T) {
		resp := get(t, newServer(&fakeTracker{}, fakePinger{}), "/healthz")

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("database down", func(t *testing.T) {
		resp := get(t, newServer(&fakeTracker{}, fakePinger{err: assert.AnError}), "/healthz")

		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
		assert.Equal(t, "DB ping failed", resp.Body.String())
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "skytrack_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	handler := api.NewServer(slog.Default(), &fakeTracker{}, reg, nil, 15, 0).Handler()
	resp := get(t, handler, "/metrics")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "skytrack_test_total 1")
}

func TestState(t *testing.T) {
	tracker := &fakeTracker{snapshot: service.Snapshot{
		SatelliteID:    25544,
		Ready:          true,
		Position:       models.GeoPoint{Latitude: 12.5, Longitude: -45},
		HeadingDegrees: 135,
		Heading:        "135° SE",
	}}

	resp := get(t, newServer(tracker, nil), "/api/state")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	var got service.Snapshot
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, tracker.snapshot, got)
}

func TestObserver(t *testing.T) {
	tracker := &fakeTracker{observer: models.GeoPoint{Latitude: 40.64925, Longitude: -73.895222}}

	resp := get(t, newServer(tracker, nil), "/api/observer")

	require.Equal(t, http.StatusOK, resp.Code)
	var got struct {
		Position models.GeoPoint `json:"position"`
		DMS      string          `json:"dms"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, tracker.observer, got.Position)
	assert.Equal(t, `40°38'57.3"N 73°53'42.8"W`, got.DMS)
}

func TestTrack(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		resp := get(t, newServer(&fakeTracker{}, nil), "/api/track")

		require.Equal(t, http.StatusOK, resp.Code)
		collection, err := geojson.UnmarshalFeatureCollection(resp.Body.Bytes())
		require.NoError(t, err)
		assert.Empty(t, collection.Features)
	})

	t.Run("track and marker", func(t *testing.T) {
		tracker := &fakeTracker{
			samples: []models.PositionSample{
				{Time: start, Position: models.GeoPoint{Latitude: 10, Longitude: 179}},
				{Time: start.Add(time.Second), Position: models.GeoPoint{Latitude: 11, Longitude: -179}},
			},
			snapshot: service.Snapshot{
				SatelliteID: 25544,
				Ready:       true,
				Position:    models.GeoPoint{Latitude: 10.5, Longitude: 180},
			},
		}

		resp := get(t, newServer(tracker, nil), "/api/track")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "application/geo+json", resp.Header().Get("Content-Type"))
		collection, err := geojson.UnmarshalFeatureCollection(resp.Body.Bytes())
		require.NoError(t, err)
		require.Len(t, collection.Features, 2)

		assert.Equal(t, orb.LineString{{179, 10}, {-179, 11}}, collection.Features[0].Geometry)
		assert.Equal(t, "track", collection.Features[0].Properties.MustString("kind"))
		assert.Equal(t, orb.Point{180, 10.5}, collection.Features[1].Geometry)
		assert.Equal(t, "marker", collection.Features[1].Properties.MustString("kind"))
		assert.InDelta(t, 25544, collection.Features[1].Properties.MustFloat64("satellite_id"), 1e-9)
	})
}

func TestIndicator(t *testing.T) {
	query := url.Values{}
	query.Set("width", "800")
	query.Set("height", "600")
	query.Set("center", "0,0")
	query.Set("sw", `5°0'0"S 5°0'0"W`)
	query.Set("ne", "5,5")
	target := "/api/indicator?" + query.Encode()

	t.Run("offscreen target", func(t *testing.T) {
		tracker := &fakeTracker{ready: true, snapshot: service.Snapshot{Position: models.GeoPoint{Latitude: 30}}}

		resp := get(t, newServer(tracker, nil), target)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, models.GeoPoint{Latitude: -5, Longitude: -5}, tracker.viewport.Bounds.SouthWest)
		var got viewport.EdgeProjection
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		assert.True(t, got.IsOffscreen)
		assert.InDelta(t, 400, got.ScreenX, 1e-6)
		assert.InDelta(t, viewport.DefaultPadding, got.ScreenY, 1e-6)
		assert.Equal(t, "0° N", got.Label)
	})

	t.Run("no position yet", func(t *testing.T) {
		resp := get(t, newServer(&fakeTracker{}, nil), target)

		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	})

	for _, bad := range []struct{ key, value string }{
		{"width", "wide"},
		{"width", "NaN"},
		{"width", "+Inf"},
		{"width", "0"},
		{"height", ""},
		{"height", "-Inf"},
		{"height", "-600"},
		{"center", "somewhere"},
		{"sw", `5°0'0"E 5°0'0"W`},
		{"ne", "95,0"},
	} {
		t.Run("bad "+bad.key+" "+bad.value, func(t *testing.T) {
			badQuery, err := url.ParseQuery(query.Encode())
			require.NoError(t, err)
			badQuery.Set(bad.key, bad.value)

			resp := get(t, newServer(&fakeTracker{ready: true}, nil), "/api/indicator?"+badQuery.Encode())

			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Contains(t, resp.Body.String(), `"error"`)
		})
	}
}

func TestAbove(t *testing.T) {
	t.Run("default radius", func(t *testing.T) {
		tracker := &fakeTracker{above: []models.Satellite{{ID: 25544, Name: "SPACE STATION"}}}

		resp := get(t, newServer(tracker, nil), "/api/above")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, 15, tracker.gotRadius)
		var got []models.Satellite
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		assert.Equal(t, tracker.above, got)
	})

	t.Run("radius override and empty result", func(t *testing.T) {
		tracker := &fakeTracker{}

		resp := get(t, newServer(tracker, nil), "/api/above?radius=40")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, 40, tracker.gotRadius)
		assert.JSONEq(t, `[]`, resp.Body.String())
	})

	t.Run("invalid radius", func(t *testing.T) {
		resp := get(t, newServer(&fakeTracker{}, nil), "/api/above?radius=-1")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("provider cannot scan", func(t *testing.T) {
		resp := get(t, newServer(&fakeTracker{aboveErr: service.ErrScanUnsupported}, nil), "/api/above")

		assert.Equal(t, http.StatusNotImplemented, resp.Code)
	})

	t.Run("provider failure", func(t *testing.T) {
		resp := get(t, newServer(&fakeTracker{aboveErr: fmt.Errorf("wrapped: %w", assert.AnError)}, nil), "/api/above")

		assert.Equal(t, http.StatusBadGateway, resp.Code)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	recorder := httptest.NewRecorder()
	newServer(&fakeTracker{}, nil).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/state", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestRequestID(t *testing.T) {
	handler := newServer(&fakeTracker{}, nil)

	resp := get(t, handler, "/healthz")
	_, err := uuid.Parse(resp.Header().Get("X-Request-ID"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, "trace-42", recorder.Header().Get("X-Request-ID"))
}

func TestRun(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	server := api.NewServer(slog.Default(), &fakeTracker{}, prometheus.NewRegistry(), nil, 15, 0)

	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
