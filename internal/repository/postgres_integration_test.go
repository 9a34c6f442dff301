//go:build integration

package repository_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/skytrack/internal/models"
	"github.com/UnknownOlympus/skytrack/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestRepository_Postgres(t *testing.T) {
	ctx := t.Context()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("skytrack"),
		postgres.WithUsername("skytrack"),
		postgres.WithPassword("skytrack"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := repository.NewDatabase(ctx, host, port.Port(), "skytrack", "skytrack", "skytrack")
	require.NoError(t, err)
	defer pool.Close()

	repo := repository.NewRepository(pool, slog.Default())
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	samples := make([]models.PositionSample, 5)
	for i := range samples {
		samples[i] = models.PositionSample{
			Time:       start.Add(time.Duration(i) * time.Minute),
			Position:   models.GeoPoint{Latitude: float64(i), Longitude: 179.5 - float64(i)},
			AltitudeKm: 420,
		}
	}

	require.NoError(t, repo.SaveSamples(ctx, issID, samples))
	// duplicates are ignored
	require.NoError(t, repo.SaveSamples(ctx, issID, samples[:2]))

	stored, err := repo.LatestSamples(ctx, issID, start.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, sample := range stored {
		assert.True(t, samples[i+2].Time.Equal(sample.Time))
		assert.Equal(t, samples[i+2].Position, sample.Position)
	}

	removed, err := repo.PruneSamples(ctx, start.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	stored, err = repo.LatestSamples(ctx, issID, start)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
