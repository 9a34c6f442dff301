package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/skytrack/internal/geo"
	"github.com/UnknownOlympus/skytrack/internal/models"
	"golang.org/x/time/rate"
)

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIProvider fetches satellite positions from a remote tracking API.
type APIProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL of the tracking API
	seconds int           // Number of one-second samples requested per fetch
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

type positionsResponse struct {
	Positions []struct {
		Latitude  float64 `json:"satlatitude"`
		Longitude float64 `json:"satlongitude"`
		Altitude  float64 `json:"sataltitude"`
		Timestamp int64   `json:"timestamp"`
	} `json:"positions"`
}

type aboveResponse struct {
	Info struct {
		TransactionsCount int `json:"transactionscount"`
	} `json:"info"`
	Above []struct {
		ID         int     `json:"satid"`
		Name       string  `json:"satname"`
		Latitude   float64 `json:"satlat"`
		Longitude  float64 `json:"satlng"`
		Altitude   float64 `json:"satalt"`
		LaunchDate string  `json:"launchDate"`
	} `json:"above"`
}

// NewAPIProvider creates a tracking API provider with a default HTTP client.
func NewAPIProvider(baseURL string, rateLimit, seconds int, log *slog.Logger) *APIProvider {
	const timeout = 10

	return NewAPIProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		baseURL,
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		seconds,
		log,
	)
}

// NewAPIProviderWithClient allows injecting a custom HTTP client and limiter.
func NewAPIProviderWithClient(
	client HTTPClient,
	baseURL string,
	limiter *rate.Limiter,
	seconds int,
	log *slog.Logger,
) *APIProvider {
	return &APIProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		seconds: seconds,
		log:     log,
		limiter: limiter,
	}
}

// Positions returns the upcoming track of the satellite with the given NORAD id.
func (ap *APIProvider) Positions(ctx context.Context, satID int) ([]models.PositionSample, error) {
	query := url.Values{}
	query.Set("satid", strconv.Itoa(satID))
	if ap.seconds > 0 {
		query.Set("seconds", strconv.Itoa(ap.seconds))
	}

	var payload positionsResponse
	if err := ap.get(ctx, "/satellite-positions", query, &payload); err != nil {
		return nil, err
	}

	if len(payload.Positions) == 0 {
		return nil, ErrEmptyResponse
	}

	samples := make([]models.PositionSample, 0, len(payload.Positions))
	for _, pos := range payload.Positions {
		samples = append(samples, models.PositionSample{
			Time:       time.Unix(pos.Timestamp, 0).UTC(),
			Position:   models.GeoPoint{Latitude: pos.Latitude, Longitude: pos.Longitude},
			AltitudeKm: pos.Altitude,
		})
	}

	ap.log.DebugContext(ctx, "Tracking API returned positions", "satellite", satID, "samples", len(samples))

	return samples, nil
}

// Above lists the satellites within radius degrees of the observer's zenith.
func (ap *APIProvider) Above(ctx context.Context, observer models.GeoPoint, radius int) ([]models.Satellite, error) {
	query := url.Values{}
	query.Set("dms", geo.FormatDMS(observer))
	query.Set("radius", strconv.Itoa(radius))

	var payload aboveResponse
	if err := ap.get(ctx, "/satellites-above", query, &payload); err != nil {
		return nil, err
	}

	ap.log.InfoContext(ctx, "Tracking API returned satellites above observer",
		"count", len(payload.Above),
		"transactions", payload.Info.TransactionsCount)

	satellites := make([]models.Satellite, 0, len(payload.Above))
	for _, sat := range payload.Above {
		satellites = append(satellites, models.Satellite{
			ID:         sat.ID,
			Name:       sat.Name,
			Position:   models.GeoPoint{Latitude: sat.Latitude, Longitude: sat.Longitude},
			AltitudeKm: sat.Altitude,
			LaunchDate: parseLaunchDate(sat.LaunchDate),
		})
	}

	return satellites, nil
}

func (ap *APIProvider) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := ap.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	reqURL := ap.baseURL + path + "?" + query.Encode()
	ap.log.DebugContext(ctx, "Tracking API request URL", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := ap.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute tracking request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		ap.log.ErrorContext(ctx, "Tracking API error", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("tracking API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode tracking response: %w", err)
	}

	return nil
}

// parseLaunchDate accepts both plain dates and RFC 3339 timestamps; unknown formats yield the zero time.
func parseLaunchDate(value string) time.Time {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
