package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/skytrack/internal/models"
)

const insertSampleQuery = `
	INSERT INTO satellite_positions (satellite_id, observed_at, latitude, longitude, altitude_km)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (satellite_id, observed_at) DO NOTHING;
`

// SaveSamples stores a batch of position samples in a single transaction.
// Samples already stored for the same satellite and instant are skipped.
func (r *Repository) SaveSamples(ctx context.Context, satID int, samples []models.PositionSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, sample := range samples {
		_, err = tx.Exec(ctx, insertSampleQuery,
			satID, sample.Time.UTC(), sample.Position.Latitude, sample.Position.Longitude, sample.AltitudeKm)
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.log.ErrorContext(ctx, "Failed to rollback sample insert", "error", rbErr)
			}
			return fmt.Errorf("failed to insert position sample: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit position samples: %w", err)
	}

	r.log.DebugContext(ctx, "Stored position samples", "satellite", satID, "count", len(samples))
	return nil
}

const latestSamplesQuery = `
	SELECT observed_at, latitude, longitude, altitude_km
	FROM satellite_positions
	WHERE satellite_id = $1 AND observed_at >= $2
	ORDER BY observed_at ASC;
`

// LatestSamples returns the stored samples of a satellite observed at or after since, earliest first.
func (r *Repository) LatestSamples(
	ctx context.Context,
	satID int,
	since time.Time,
) ([]models.PositionSample, error) {
	rows, err := r.db.Query(ctx, latestSamplesQuery, satID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query position samples: %w", err)
	}
	defer rows.Close()

	var samples []models.PositionSample
	for rows.Next() {
		var sample models.PositionSample
		if errScan := rows.Scan(
			&sample.Time,
			&sample.Position.Latitude,
			&sample.Position.Longitude,
			&sample.AltitudeKm,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan position sample: %w", errScan)
		}
		samples = append(samples, sample)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return samples, nil
}

const pruneSamplesQuery = `
	DELETE FROM satellite_positions
	WHERE observed_at < $1;
`

// PruneSamples deletes every sample observed before the given instant and reports how many were removed.
func (r *Repository) PruneSamples(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, pruneSamplesQuery, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune position samples: %w", err)
	}

	return tag.RowsAffected(), nil
}
