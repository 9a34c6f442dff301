package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/skytrack/internal/geo"
	"github.com/UnknownOlympus/skytrack/internal/models"
	"github.com/UnknownOlympus/skytrack/internal/service"
	"github.com/UnknownOlympus/skytrack/internal/viewport"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tracker is the tracking state the API exposes.
type Tracker interface {
	Snapshot() service.Snapshot
	Track() []models.PositionSample
	Observer() models.GeoPoint
	Indicator(vp viewport.Viewport) (viewport.EdgeProjection, bool)
	Above(ctx context.Context, radius int) ([]models.Satellite, error)
}

// Pinger reports the health of a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the tracking state, health checks and metrics over HTTP.
type Server struct {
	log     *slog.Logger
	tracker Tracker
	gather  prometheus.Gatherer
	db      Pinger // optional
	radius  int
	port    int
}

type errorResponse struct {
	Error string `json:"error"`
}

type observerResponse struct {
	Position models.GeoPoint `json:"position"`
	DMS      string          `json:"dms"`
}

// NewServer creates a Server. db may be nil when persistence is disabled.
func NewServer(
	log *slog.Logger,
	tracker Tracker,
	gather prometheus.Gatherer,
	db Pinger,
	radius, port int,
) *Server {
	return &Server{log: log, tracker: tracker, gather: gather, db: db, radius: radius, port: port}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/observer", s.handleObserver)
	mux.HandleFunc("GET /api/track", s.handleTrack)
	mux.HandleFunc("GET /api/indicator", s.handleIndicator)
	mux.HandleFunc("GET /api/above", s.handleAbove)

	return withRequestID(mux)
}

const requestIDHeader = "X-Request-ID"

// withRequestID echoes the caller's request id or assigns a new one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		writer.Header().Set(requestIDHeader, id)
		next.ServeHTTP(writer, req)
	})
}

// Run listens on the configured port until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	const (
		readTimeout     = 5 * time.Second
		writeTimeout    = 10 * time.Second
		shutdownTimeout = 5 * time.Second
	)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "Starting http server", "port", s.port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}

	return nil
}

func (s *Server) handleHealth(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	s.log.DebugContext(ctx, "Performing health checks...")

	status, body := http.StatusOK, "OK"
	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			status, body = http.StatusServiceUnavailable, "DB ping failed"
		}
	}

	writer.WriteHeader(status)
	if _, err := writer.Write([]byte(body)); err != nil {
		s.log.ErrorContext(ctx, "failed to write reply", "error", err)
	}

	s.log.DebugContext(ctx, "Health checks completed", "status", status)
}

func (s *Server) handleState(writer http.ResponseWriter, req *http.Request) {
	s.writeJSON(writer, req, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleObserver(writer http.ResponseWriter, req *http.Request) {
	observer := s.tracker.Observer()
	s.writeJSON(writer, req, http.StatusOK, observerResponse{Position: observer, DMS: geo.FormatDMS(observer)})
}

// handleTrack renders the current sample window as a GeoJSON LineString and,
// once the animation has delivered a state, the marker as a Point.
func (s *Server) handleTrack(writer http.ResponseWriter, req *http.Request) {
	samples := s.tracker.Track()
	collection := geojson.NewFeatureCollection()

	if len(samples) > 0 {
		line := make(orb.LineString, 0, len(samples))
		for _, sample := range samples {
			line = append(line, orb.Point{sample.Position.Longitude, sample.Position.Latitude})
		}
		feature := geojson.NewFeature(line)
		feature.Properties["kind"] = "track"
		feature.Properties["start"] = samples[0].Time
		feature.Properties["end"] = samples[len(samples)-1].Time
		collection.Append(feature)
	}

	if snapshot := s.tracker.Snapshot(); snapshot.Ready {
		marker := geojson.NewFeature(orb.Point{snapshot.Position.Longitude, snapshot.Position.Latitude})
		marker.Properties["kind"] = "marker"
		marker.Properties["satellite_id"] = snapshot.SatelliteID
		marker.Properties["heading_degrees"] = snapshot.HeadingDegrees
		collection.Append(marker)
	}

	body, err := collection.MarshalJSON()
	if err != nil {
		s.writeError(writer, req, http.StatusInternalServerError, err)
		return
	}

	writer.Header().Set("Content-Type", "application/geo+json")
	writer.WriteHeader(http.StatusOK)
	if _, err = writer.Write(body); err != nil {
		s.log.ErrorContext(req.Context(), "failed to write reply", "error", err)
	}
}

func (s *Server) handleIndicator(writer http.ResponseWriter, req *http.Request) {
	vp, err := parseViewport(req)
	if err != nil {
		s.writeError(writer, req, http.StatusBadRequest, err)
		return
	}

	projection, ready := s.tracker.Indicator(vp)
	if !ready {
		s.writeError(writer, req, http.StatusServiceUnavailable, errors.New("no satellite position yet"))
		return
	}

	s.writeJSON(writer, req, http.StatusOK, projection)
}

func (s *Server) handleAbove(writer http.ResponseWriter, req *http.Request) {
	radius := s.radius
	if value := req.URL.Query().Get("radius"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			s.writeError(writer, req, http.StatusBadRequest, fmt.Errorf("invalid radius %q", value))
			return
		}
		radius = parsed
	}

	satellites, err := s.tracker.Above(req.Context(), radius)
	switch {
	case errors.Is(err, service.ErrScanUnsupported):
		s.writeError(writer, req, http.StatusNotImplemented, err)
	case err != nil:
		s.log.ErrorContext(req.Context(), "Failed to list satellites above observer", "error", err)
		s.writeError(writer, req, http.StatusBadGateway, err)
	default:
		if satellites == nil {
			satellites = []models.Satellite{}
		}
		s.writeJSON(writer, req, http.StatusOK, satellites)
	}
}

// parseViewport reads width, height, center, sw and ne query parameters.
// Coordinates accept DMS or decimal "lat,lng" pairs.
func parseViewport(req *http.Request) (viewport.Viewport, error) {
	query := req.URL.Query()

	width, err := parseSize(query.Get("width"))
	if err != nil {
		return viewport.Viewport{}, fmt.Errorf("invalid width %q", query.Get("width"))
	}
	height, err := parseSize(query.Get("height"))
	if err != nil {
		return viewport.Viewport{}, fmt.Errorf("invalid height %q", query.Get("height"))
	}

	points := make(map[string]models.GeoPoint, 3) //nolint:mnd // center, sw, ne
	for _, key := range []string{"center", "sw", "ne"} {
		point, errParse := geo.ParseCoordinates(query.Get(key))
		if errParse != nil {
			return viewport.Viewport{}, fmt.Errorf("invalid %s: %w", key, errParse)
		}
		points[key] = point
	}

	return viewport.Viewport{
		Width:  width,
		Height: height,
		Center: points["center"],
		Bounds: viewport.Bounds{SouthWest: points["sw"], NorthEast: points["ne"]},
	}, nil
}

// parseSize accepts a finite pixel size greater than zero.
func parseSize(value string) (float64, error) {
	size, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return 0, errors.New("size must be a positive finite number")
	}

	return size, nil
}

func (s *Server) writeJSON(writer http.ResponseWriter, req *http.Request, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		s.log.ErrorContext(req.Context(), "failed to write reply", "error", err)
	}
}

func (s *Server) writeError(writer http.ResponseWriter, req *http.Request, status int, err error) {
	s.log.DebugContext(req.Context(), "Request failed",
		"path", req.URL.Path,
		"request_id", writer.Header().Get(requestIDHeader),
		"status", status,
		"error", err)
	s.writeJSON(writer, req, status, errorResponse{Error: err.Error()})
}
