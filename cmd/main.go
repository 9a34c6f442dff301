package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/skytrack/internal/api"
	"github.com/UnknownOlympus/skytrack/internal/config"
	"github.com/UnknownOlympus/skytrack/internal/ephemeris"
	"github.com/UnknownOlympus/skytrack/internal/geocoding"
	"github.com/UnknownOlympus/skytrack/internal/metrics"
	"github.com/UnknownOlympus/skytrack/internal/models"
	"github.com/UnknownOlympus/skytrack/internal/repository"
	"github.com/UnknownOlympus/skytrack/internal/service"
	"github.com/UnknownOlympus/skytrack/internal/track"
	"github.com/UnknownOlympus/skytrack/internal/viewport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// The sample store is optional.
	var (
		repo   repository.Interface
		pinger api.Pinger
	)
	if cfg.Database.Host != "" {
		dtb, err := repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()

		store := repository.NewRepository(dtb, logger)
		if err = store.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare DB schema: %v", err)
		}
		repo, pinger = store, dtb
	} else {
		logger.InfoContext(ctx, "DB_HOST is not set, position samples will not be stored")
	}

	observer := resolveObserver(ctx, logger, cfg)

	ephemerisProvider, err := ephemeris.NewProvider(ephemeris.ProviderConfig{
		Type:        ephemeris.ProviderType(cfg.Ephemeris.Type),
		BaseURL:     cfg.Ephemeris.BaseURL,
		RateLimit:   cfg.Ephemeris.RateLimit,
		TLELine1:    cfg.Ephemeris.TLELine1,
		TLELine2:    cfg.Ephemeris.TLELine2,
		SampleCount: cfg.Ephemeris.SampleCount,
		SampleStep:  cfg.Ephemeris.SampleStep,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("Failed to create ephemeris provider: %v", err)
	}
	logger.InfoContext(ctx, "Ephemeris provider initialized", "type", cfg.Ephemeris.Type)

	animator := track.NewAnimator(
		track.SystemClock{},
		track.Options{FrameInterval: cfg.FrameInterval, NoAnimation: cfg.NoAnimate},
		logger,
		appMetrics,
	)

	tracker := service.NewTrackerService(
		logger,
		ephemerisProvider,
		repo,
		animator,
		viewport.NewProjector(cfg.Padding),
		appMetrics,
		observer,
		service.Config{
			SatelliteID:   cfg.SatelliteID,
			FetchInterval: cfg.Interval,
			Retention:     cfg.Retention,
			ProviderName:  cfg.Ephemeris.Type,
		},
	)

	server := api.NewServer(logger, tracker, reg, pinger, cfg.Radius, cfg.Port)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	go func() {
		if errRun := server.Run(ctx); errRun != nil {
			logger.ErrorContext(ctx, "HTTP server failed", "error", errRun)
			stop()
		}
	}()

	// Run blocks until the context is canceled (e.g., by Ctrl+C).
	tracker.Run(ctx)

	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// resolveObserver turns the configured observer text into a location.
// An unresolvable observer falls back to (0, 0) so tracking still works.
func resolveObserver(ctx context.Context, logger *slog.Logger, cfg *config.Config) models.GeoPoint {
	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Geocoder.Type),
		APIKey:    cfg.Geocoder.APIKey,
		Region:    cfg.Geocoder.Region,
		RateLimit: cfg.Geocoder.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}

	observer, err := geocoding.NewLocator(geoProvider, logger).Resolve(ctx, cfg.Observer)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to resolve observer, using fallback center", "observer", cfg.Observer, "error", err)
		return models.GeoPoint{}
	}

	logger.InfoContext(ctx, "Observer resolved", "latitude", observer.Latitude, "longitude", observer.Longitude)
	return observer
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified	 or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
